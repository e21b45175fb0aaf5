package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/importer"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

// planInput collects the flags that describe labeled parts and stock.
type planInput struct {
	partsFile    string
	stockFile    string
	projectFile  string
	stockPresets []string
	inventory    string
}

func (in *planInput) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.partsFile, "parts", "", "parts list (CSV, XLSX or DXF)")
	f.StringVar(&in.stockFile, "stock-file", "", "stock list (CSV or XLSX)")
	f.StringVar(&in.projectFile, "project", "", "project file (.linecut, .json, .yaml)")
	f.StringArrayVar(&in.stockPresets, "stock-preset", nil, "inventory preset as NAME[:QTY], repeatable")
	f.StringVar(&in.inventory, "inventory", "", "inventory file for --stock-preset (default ~/.linecut/inventory.json)")
}

func (in *planInput) empty() bool {
	return in.partsFile == "" && in.stockFile == "" && in.projectFile == "" && len(in.stockPresets) == 0
}

// settingFlags lists the flags that override cut settings.
var settingFlags = []string{"kerf", "trim-left", "trim-right", "units", "min-offcut"}

func addSettingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("kerf", 0, "blade width added to every cut (mm)")
	f.Float64("trim-left", 0, "trim removed from the start of every bar (mm)")
	f.Float64("trim-right", 0, "trim removed from the end of every bar (mm)")
	f.String("units", "", "display units: mm, cm, in, ft")
	f.Float64("min-offcut", 0, "shortest remnant kept as an offcut (mm)")
}

// load resolves the project, import files and presets into parts, stock and
// settings. Files in a project are extended, not replaced, by --parts and
// --stock-file.
func (in *planInput) load(a *app, cmd *cobra.Command) (model.Project, error) {
	proj := model.NewProject()
	proj.Settings = a.cfg.CutSettings()

	if in.projectFile != "" {
		loaded, err := project.Load(in.projectFile)
		if err != nil {
			return model.Project{}, err
		}
		proj = loaded
		// The project carries its own settings; explicit flags still win.
		cfgSettings := a.cfg.CutSettings()
		for _, name := range settingFlags {
			if !cmd.Flags().Changed(name) {
				continue
			}
			switch name {
			case "kerf":
				proj.Settings.KerfWidth = cfgSettings.KerfWidth
			case "trim-left":
				proj.Settings.TrimLeft = cfgSettings.TrimLeft
			case "trim-right":
				proj.Settings.TrimRight = cfgSettings.TrimRight
			case "units":
				proj.Settings.Units = cfgSettings.Units
			case "min-offcut":
				proj.Settings.MinOffcutLength = cfgSettings.MinOffcutLength
			}
		}
	}

	importOpts := importer.Options{Units: proj.Settings.Units}
	if in.partsFile != "" {
		importOpts.Kind = importer.KindParts
		res, err := a.importFile(in.partsFile, importOpts)
		if err != nil {
			return model.Project{}, err
		}
		proj.Parts = append(proj.Parts, res.Parts...)
	}
	if in.stockFile != "" {
		importOpts.Kind = importer.KindStock
		res, err := a.importFile(in.stockFile, importOpts)
		if err != nil {
			return model.Project{}, err
		}
		proj.Stocks = append(proj.Stocks, res.Stocks...)
	}
	if len(in.stockPresets) > 0 {
		bars, err := in.presetBars()
		if err != nil {
			return model.Project{}, err
		}
		proj.Stocks = append(proj.Stocks, bars...)
	}

	if len(proj.Parts) == 0 || len(proj.Stocks) == 0 {
		return model.Project{}, model.ErrMissingInput
	}
	if err := model.ValidatePlanInput(proj.Parts, proj.Stocks, proj.Settings); err != nil {
		return model.Project{}, err
	}
	return proj, nil
}

// importFile runs an importer and turns row errors into one error.
// Warnings are logged.
func (a *app) importFile(path string, opts importer.Options) (importer.ImportResult, error) {
	res := importer.ImportFile(path, opts)
	for _, w := range res.Warnings {
		a.logger.Warn("import warning", zap.String("file", path), zap.String("warning", w))
	}
	if len(res.Errors) > 0 {
		return res, fmt.Errorf("import %s (%s): %s", path, opts.Kind, strings.Join(res.Errors, "; "))
	}
	a.logger.Debug("imported", zap.String("file", path), zap.Stringer("kind", opts.Kind), zap.Int("rows", res.Count()))
	return res, nil
}

// presetBars resolves NAME[:QTY] arguments against the inventory.
func (in *planInput) presetBars() ([]model.StockBar, error) {
	inv, err := loadInventory(in.inventory)
	if err != nil {
		return nil, err
	}

	var bars []model.StockBar
	for _, arg := range in.stockPresets {
		name, qty := arg, 1
		if i := strings.LastIndex(arg, ":"); i >= 0 {
			n, err := strconv.Atoi(arg[i+1:])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("stock preset %q: quantity must be a positive integer", arg)
			}
			name, qty = arg[:i], n
		}
		preset := inv.FindStockByName(name)
		if preset == nil {
			return nil, fmt.Errorf("stock preset %q not found in inventory", name)
		}
		bars = append(bars, preset.ToStockBar(qty))
	}
	return bars, nil
}

// parseLengths accepts lengths separated by commas or whitespace.
func parseLengths(kind, s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, f, errors.Unwrap(err))
		}
		out = append(out, v)
	}
	return out, nil
}
