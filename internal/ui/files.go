package ui

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/export"
	"github.com/piwi3910/LineCut/internal/importer"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

// ─── Project Files ─────────────────────────────────────────

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.Save(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.project.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		a.logger.Info("project saved", zap.String("path", path))
	}, a.window)
	d.SetFileName(a.project.Name + project.Extension)
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		proj, err := project.Load(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.history.Clear()
		a.project = proj
		a.refreshAll()
		a.updateUndoMenu()
		a.logger.Info("project loaded", zap.String("path", path), zap.Int("parts", len(proj.Parts)))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension, ".json", ".yaml", ".yml"}))
	d.Show()
}

// ─── Import ────────────────────────────────────────────────

type importTarget struct {
	kind       importer.Kind
	extensions []string
}

var (
	partsImport = importTarget{importer.KindParts, []string{".csv", ".txt", ".xlsx", ".xlsm", ".dxf"}}
	stockImport = importTarget{importer.KindStock, []string{".csv", ".txt", ".xlsx", ".xlsm"}}
)

func (a *App) importFile(target importTarget) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		result := importer.ImportFile(path, importer.Options{Kind: target.kind, Units: a.project.Settings.Units})
		a.handleImportResult(path, target.kind, result)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(target.extensions))
	d.Show()
}

func (a *App) handleImportResult(path string, kind importer.Kind, result importer.ImportResult) {
	for _, w := range result.Warnings {
		a.logger.Warn("import", zap.String("path", path), zap.String("warning", w))
	}
	if len(result.Errors) > 0 && result.Count() == 0 {
		dialog.ShowError(errors.New("nothing imported:\n\n"+strings.Join(result.Errors, "\n")), a.window)
		return
	}

	a.record("Import " + kind.String())
	a.project.Parts = append(a.project.Parts, result.Parts...)
	a.project.Stocks = append(a.project.Stocks, result.Stocks...)
	a.refreshPartsList()
	a.refreshStockList()

	msg := fmt.Sprintf("Imported %d %s rows from %s.", result.Count(), kind, filepath.Base(path))
	if n := len(result.Errors); n > 0 {
		msg += fmt.Sprintf("\n\n%d rows had errors and were skipped:\n%s", n, strings.Join(result.Errors, "\n"))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

// ─── Export ────────────────────────────────────────────────

type exportFormat struct {
	name     string
	fileName string
	write    func(io.Writer, model.CutPlan) error
}

var (
	pdfExport    = exportFormat{"PDF cut list", "cutlist.pdf", export.WritePDF}
	xlsxExport   = exportFormat{"Excel cut list", "cutlist.xlsx", export.WriteXLSX}
	labelsExport = exportFormat{"part labels", "labels.pdf", export.WriteLabels}
)

func (a *App) exportPlan(format exportFormat) {
	if a.project.Result == nil || a.project.Result.CutCount() == 0 {
		dialog.ShowInformation("No results", "Run the optimizer first before exporting.", a.window)
		return
	}
	plan := *a.project.Result

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		werr := format.write(writer, plan)
		if cerr := writer.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			dialog.ShowError(fmt.Errorf("export %s: %w", format.name, werr), a.window)
			return
		}
		a.logger.Info("exported", zap.String("format", format.name), zap.String("path", path))
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved %s to %s", format.name, path), a.window)
	}, a.window)
	d.SetFileName(format.fileName)
	d.Show()
}
