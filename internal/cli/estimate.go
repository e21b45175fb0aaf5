package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/importer"
	"github.com/piwi3910/LineCut/internal/model"
)

type estimateOptions struct {
	partsFile string
	barLength float64
	waste     float64
	price     float64
	format    string
}

func newEstimateCmd(a *app) *cobra.Command {
	opts := &estimateOptions{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate how many bars to buy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEstimate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.partsFile, "parts", "", "parts list (CSV, XLSX or DXF)")
	f.Float64Var(&opts.barLength, "bar-length", 6000, "length of one stock bar (mm)")
	f.Float64Var(&opts.waste, "waste", 10, "extra waste allowance in percent")
	f.Float64Var(&opts.price, "price", 0, "price per bar")
	f.StringVarP(&opts.format, "format", "o", "text", "output format: text, json")
	f.Float64("kerf", 0, "blade width added to every cut (mm)")
	_ = cmd.MarkFlagRequired("parts")
	return cmd
}

func (a *app) runEstimate(cmd *cobra.Command, opts *estimateOptions) error {
	if err := model.ValidateLengths("bar length", []float64{opts.barLength}); err != nil {
		return err
	}
	if opts.waste < 0 || opts.price < 0 {
		return errors.New("--waste and --price must not be negative")
	}

	settings := a.cfg.CutSettings()
	res, err := a.importFile(opts.partsFile, importer.Options{Kind: importer.KindParts, Units: settings.Units})
	if err != nil {
		return err
	}
	if len(res.Parts) == 0 {
		return model.ErrMissingInput
	}

	est := model.CalculatePurchaseEstimate(res.Parts, opts.barLength, settings.KerfWidth, opts.waste, opts.price)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		return writeJSON(out, est)
	}

	u := settings.Units
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total cut length:\t%s\t(kerf %s per cut)\n", u.Format(est.TotalCutLength), u.Format(est.KerfWidth))
	fmt.Fprintf(tw, "Bar length:\t%s\n", u.Format(est.BarLength))
	fmt.Fprintf(tw, "Bars needed:\t%d\t(%.2f exact)\n", est.BarsNeededMin, est.BarsNeededExact)
	fmt.Fprintf(tw, "With %.0f%% waste:\t%d\n", est.WastePercent, est.BarsWithWaste)
	if est.PricePerBar > 0 {
		fmt.Fprintf(tw, "Estimated cost:\t%.2f\n", est.EstimatedCost)
	}
	for _, p := range est.Oversize {
		fmt.Fprintf(tw, "Oversize:\t%s\t%s x%d\n", p.Label, u.Format(p.Length), p.Quantity)
	}
	return tw.Flush()
}

func newCompareCmd(a *app) *cobra.Command {
	in := &planInput{}
	var format string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare kerf and trim scenarios side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := in.load(a, cmd)
			if err != nil {
				return err
			}
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(proj.Settings), proj.Parts, proj.Stocks)

			out := cmd.OutOrStdout()
			if format == "json" {
				type row struct {
					Scenario     string  `json:"scenario"`
					BarsUsed     int     `json:"bars_used"`
					Cuts         int     `json:"cuts"`
					WastePercent float64 `json:"waste_percent"`
					Unplaced     int     `json:"unplaced"`
					Cost         float64 `json:"cost"`
				}
				rows := make([]row, 0, len(results))
				for _, r := range results {
					rows = append(rows, row{r.Scenario.Name, r.BarsUsed, r.TotalCuts, r.WastePercent, r.UnplacedCount, r.Cost})
				}
				return writeJSON(out, rows)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tBARS\tCUTS\tWASTE\tUNPLACED\tCOST")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%d\t%.2f\n",
					r.Scenario.Name, r.BarsUsed, r.TotalCuts, r.WastePercent, r.UnplacedCount, r.Cost)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text, json")
	in.addFlags(cmd)
	addSettingFlags(cmd)
	return cmd
}
