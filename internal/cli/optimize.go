package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/export"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

type optimizeOptions struct {
	planInput

	cuts  string
	stock string

	format      string
	pdfPath     string
	xlsxPath    string
	labelsPath  string
	saveProject string
}

func newOptimizeCmd(a *app) *cobra.Command {
	opts := &optimizeOptions{}
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Assign cuts to stock",
		Long: `Assign cuts to stock with first-fit, longest cut first.

Raw lengths:
  linecut optimize --cuts 1200,800,800,500 --stock 2500,3000

Labeled parts with kerf and trim:
  linecut optimize --parts parts.csv --stock-file stock.csv --kerf 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOptimize(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cuts, "cuts", "", "required cut lengths, comma separated")
	f.StringVar(&opts.stock, "stock", "", "available stock lengths, comma separated")
	f.StringVarP(&opts.format, "format", "o", "text", "output format: text, json")
	f.StringVar(&opts.pdfPath, "pdf", "", "write a PDF cut list to this path")
	f.StringVar(&opts.xlsxPath, "xlsx", "", "write an XLSX cut list to this path")
	f.StringVar(&opts.labelsPath, "labels", "", "write QR part labels (PDF) to this path")
	f.StringVar(&opts.saveProject, "save-project", "", "save parts, stock and settings as a project")
	opts.planInput.addFlags(cmd)
	addSettingFlags(cmd)
	return cmd
}

func (a *app) runOptimize(cmd *cobra.Command, opts *optimizeOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	raw := cmd.Flags().Changed("cuts") || cmd.Flags().Changed("stock")
	switch {
	case raw && !opts.planInput.empty():
		return errors.New("--cuts/--stock cannot be combined with --parts, --stock-file, --project or --stock-preset")
	case raw:
		return a.runAllocate(cmd.OutOrStdout(), opts)
	default:
		return a.runPlan(cmd, opts)
	}
}

// runAllocate handles the raw mode: plain lengths in, AllocationResult out.
func (a *app) runAllocate(out io.Writer, opts *optimizeOptions) error {
	if opts.cuts == "" || opts.stock == "" {
		return model.ErrMissingInput
	}
	if opts.labelsPath != "" {
		return errors.New("--labels needs labeled parts (--parts or --project)")
	}
	cuts, err := parseLengths("cut", opts.cuts)
	if err != nil {
		return err
	}
	stock, err := parseLengths("stock", opts.stock)
	if err != nil {
		return err
	}
	if err := errors.Join(model.ValidateLengths("cut", cuts), model.ValidateLengths("stock", stock)); err != nil {
		return err
	}

	result := engine.Allocate(cuts, stock)
	a.logger.Debug("allocated",
		zap.Int("cuts", len(cuts)),
		zap.Int("stock", len(stock)),
		zap.Int("waste", len(result.Waste)),
	)

	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, func(w io.Writer) error { return export.WriteAllocationPDF(w, result) }); err != nil {
			return err
		}
	}
	if opts.xlsxPath != "" {
		if err := writeFile(opts.xlsxPath, func(w io.Writer) error { return export.WriteAllocationXLSX(w, result) }); err != nil {
			return err
		}
	}

	if opts.format == "json" {
		return writeJSON(out, result)
	}
	return export.WriteAllocationText(out, result)
}

// runPlan handles labeled parts and stock bars.
func (a *app) runPlan(cmd *cobra.Command, opts *optimizeOptions) error {
	proj, err := opts.planInput.load(a, cmd)
	if err != nil {
		return err
	}

	plan := engine.New(proj.Settings).Optimize(proj.Parts, proj.Stocks)
	a.logger.Debug("planned",
		zap.Int("bars", len(plan.Bars)),
		zap.Int("cuts", plan.CutCount()),
		zap.Int("unplaced", len(plan.Unplaced)),
	)

	if opts.pdfPath != "" {
		if err := export.ExportPDF(opts.pdfPath, plan); err != nil {
			return err
		}
	}
	if opts.xlsxPath != "" {
		if err := export.ExportXLSX(opts.xlsxPath, plan); err != nil {
			return err
		}
	}
	if opts.labelsPath != "" {
		if err := export.ExportLabels(opts.labelsPath, plan); err != nil {
			return err
		}
	}
	if opts.saveProject != "" {
		proj.Result = &plan
		if err := project.Save(opts.saveProject, proj); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		return writeJSON(out, plan)
	}
	return export.WriteText(out, plan)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
