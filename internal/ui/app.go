// Package ui provides the LineCut desktop front-end.
package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/ui/widgets"
)

const resultsTab = 3

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	logger  *zap.Logger
	version string

	project  model.Project
	defaults model.CutSettings
	history  *History
	theme    *Theme

	inventory     model.Inventory
	inventoryPath string

	tabs *container.AppTabs

	partsContainer    *fyne.Container
	stockContainer    *fyne.Container
	settingsContainer *fyne.Container
	resultContainer   *fyne.Container
	undoItem          *fyne.MenuItem
	redoItem          *fyne.MenuItem
}

// NewApp creates the UI state. defaults seed every new project.
func NewApp(application fyne.App, window fyne.Window, defaults model.CutSettings, logger *zap.Logger) *App {
	proj := model.NewProject()
	proj.Settings = defaults
	return &App{
		app:      application,
		window:   window,
		logger:   logger,
		version:  "dev",
		project:  proj,
		defaults: defaults,
		history:  NewHistory(),
		theme:    NewTheme(),
	}
}

// WithVersion sets the version shown in the About dialog.
func (a *App) WithVersion(v string) *App {
	a.version = v
	return a
}

// Theme returns the compact theme to install on the fyne app.
func (a *App) Theme() fyne.Theme { return a.theme }

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", a.newProject),
		fyne.NewMenuItem("Open Project...", a.loadProject),
		fyne.NewMenuItem("Save Project...", a.saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Parts...", func() { a.importFile(partsImport) }),
		fyne.NewMenuItem("Import Stock...", func() { a.importFile(stockImport) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Cut List...", func() { a.exportPlan(pdfExport) }),
		fyne.NewMenuItem("Export Excel Cut List...", func() { a.exportPlan(xlsxExport) }),
		fyne.NewMenuItem("Export Part Labels...", func() { a.exportPlan(labelsExport) }),
	)

	a.undoItem = fyne.NewMenuItem("Undo", a.undo)
	a.undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	a.redoItem = fyne.NewMenuItem("Redo", a.redo)
	a.redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}
	editMenu := fyne.NewMenu("Edit",
		a.undoItem,
		a.redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Parts", func() {
			a.record("Clear Parts")
			a.project.Parts = nil
			a.refreshPartsList()
		}),
		fyne.NewMenuItem("Clear All Stock", func() {
			a.record("Clear Stock")
			a.project.Stocks = nil
			a.refreshStockList()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Optimize", a.optimizeAndShow),
		fyne.NewMenuItem("Compare Scenarios...", a.showCompareDialog),
		fyne.NewMenuItem("Purchase Estimate...", a.showEstimateDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Offcuts to Stock", a.addOffcutsToStock),
		fyne.NewMenuItem("Stock Inventory...", a.showStockInventoryDialog),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("System Theme", func() { a.setVariant(themeSystem) }),
		fyne.NewMenuItem("Light Theme", func() { a.setVariant(theme.VariantLight) }),
		fyne.NewMenuItem("Dark Theme", func() { a.setVariant(theme.VariantDark) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, viewMenu, helpMenu))
	for _, item := range []*fyne.MenuItem{a.undoItem, a.redoItem} {
		if sc, ok := item.Shortcut.(*desktop.CustomShortcut); ok {
			action := item.Action
			a.window.Canvas().AddShortcut(sc, func(fyne.Shortcut) { action() })
		}
	}
	a.updateUndoMenu()
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About LineCut",
		"LineCut, Linear Cut List Optimizer\n\n"+
			"Assigns required cuts to available bars,\n"+
			"longest cut first, first bar that fits.\n\n"+
			"Version "+a.version,
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.loadInventory()

	partsTab := container.NewTabItem("Parts", a.buildPartsPanel())
	stockTab := container.NewTabItem("Stock", a.buildStockPanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())
	resultTab := container.NewTabItem("Results", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(partsTab, stockTab, settingsTab, resultTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.DocumentIcon(), "New project", a.newProject),
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open project", a.loadProject),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save project", a.saveProject),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Optimize", theme.MediaPlayIcon(), a.optimizeAndShow),
	)

	return container.NewBorder(toolbar, nil, nil, nil, a.tabs)
}

func (a *App) setVariant(v fyne.ThemeVariant) {
	a.theme.SetVariant(v)
	a.app.Settings().SetTheme(a.theme)
}

// ─── History ───────────────────────────────────────────────

// record snapshots the project before a change named label.
func (a *App) record(label string) {
	a.history.Push(MakeSnapshot(a.project, label))
	a.updateUndoMenu()
}

func (a *App) undo() {
	s, ok := a.history.Undo(MakeSnapshot(a.project, ""))
	if !ok {
		return
	}
	a.restore(s)
}

func (a *App) redo() {
	s, ok := a.history.Redo(MakeSnapshot(a.project, ""))
	if !ok {
		return
	}
	a.restore(s)
}

func (a *App) restore(s Snapshot) {
	s.Apply(&a.project)
	a.refreshAll()
	a.updateUndoMenu()
}

func (a *App) updateUndoMenu() {
	if a.undoItem == nil {
		return
	}
	a.undoItem.Label = "Undo"
	if l := a.history.UndoLabel(); l != "" {
		a.undoItem.Label = "Undo " + l
	}
	a.undoItem.Disabled = !a.history.CanUndo()
	a.redoItem.Disabled = !a.history.CanRedo()
	if menu := a.window.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

func (a *App) refreshAll() {
	a.refreshPartsList()
	a.refreshStockList()
	a.refreshSettings()
	a.refreshResults()
}

// ─── Parts Panel ───────────────────────────────────────────

func (a *App) buildPartsPanel() fyne.CanvasObject {
	a.partsContainer = container.NewVBox()
	a.refreshPartsList()

	addBtn := widget.NewButtonWithIcon("Add Part", theme.ContentAddIcon(), func() {
		a.showPartDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Required Cuts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.partsContainer),
	)
}

func headerRow(titles ...string) *fyne.Container {
	cells := make([]fyne.CanvasObject, len(titles))
	for i, t := range titles {
		cells[i] = widget.NewLabelWithStyle(t, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	return container.NewGridWithColumns(len(titles), cells...)
}

func (a *App) refreshPartsList() {
	if a.partsContainer == nil {
		return
	}
	a.partsContainer.RemoveAll()

	if len(a.project.Parts) == 0 {
		a.partsContainer.Add(widget.NewLabel("No parts added yet. Click 'Add Part' or import a cut list."))
		return
	}

	u := a.project.Settings.Units
	a.partsContainer.Add(headerRow("Label", "Length ("+u.String()+")", "Qty", "Group", "", ""))
	a.partsContainer.Add(widget.NewSeparator())

	for i := range a.project.Parts {
		idx := i
		p := a.project.Parts[idx]
		a.partsContainer.Add(container.NewGridWithColumns(6,
			widget.NewLabel(p.Label),
			widget.NewLabel(lengthText(p.Length, u)),
			widget.NewLabel(fmt.Sprintf("%d", p.Quantity)),
			widget.NewLabel(p.Group),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showPartDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.record("Delete Part")
				a.project.Parts = append(a.project.Parts[:idx], a.project.Parts[idx+1:]...)
				a.refreshPartsList()
			}),
		))
	}
}

// showPartDialog edits the part at idx, or adds a new one when idx < 0.
func (a *App) showPartDialog(idx int) {
	u := a.project.Settings.Units
	title, confirm := "Add Part", "Add"
	p := model.NewPart(fmt.Sprintf("Part %d", len(a.project.Parts)+1), 0, 1)
	if idx >= 0 {
		title, confirm = "Edit Part", "Save"
		p = a.project.Parts[idx]
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetText(p.Label)
	lengthEntry := widget.NewEntry()
	lengthEntry.SetPlaceHolder("Length in " + u.String())
	if p.Length > 0 {
		lengthEntry.SetText(lengthText(p.Length, u))
	}
	qtyEntry := widget.NewEntry()
	qtyEntry.SetText(fmt.Sprintf("%d", p.Quantity))
	groupEntry := widget.NewEntry()
	groupEntry.SetPlaceHolder("Any material")
	groupEntry.SetText(p.Group)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Length ("+u.String()+")", lengthEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Group", groupEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			f := partForm{Label: labelEntry.Text, Length: lengthEntry.Text, Quantity: qtyEntry.Text, Group: groupEntry.Text}
			if err := f.apply(&p, u); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.record(title)
			if idx >= 0 {
				a.project.Parts[idx] = p
			} else {
				a.project.Parts = append(a.project.Parts, p)
			}
			a.refreshPartsList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// ─── Stock Panel ───────────────────────────────────────────

func (a *App) buildStockPanel() fyne.CanvasObject {
	a.stockContainer = container.NewVBox()
	a.refreshStockList()

	addBtn := widget.NewButtonWithIcon("Add Stock", theme.ContentAddIcon(), func() {
		a.showStockDialog(-1)
	})
	presetBtn := widget.NewButtonWithIcon("From Inventory", theme.ListIcon(), a.showAddFromInventoryDialog)

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Available Stock", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			presetBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.stockContainer),
	)
}

func (a *App) refreshStockList() {
	if a.stockContainer == nil {
		return
	}
	a.stockContainer.RemoveAll()

	if len(a.project.Stocks) == 0 {
		a.stockContainer.Add(widget.NewLabel("No stock defined. Click 'Add Stock' or pick from the inventory."))
		return
	}

	u := a.project.Settings.Units
	a.stockContainer.Add(headerRow("Label", "Length ("+u.String()+")", "Qty", "Group", "Price", "", ""))
	a.stockContainer.Add(widget.NewSeparator())

	for i := range a.project.Stocks {
		idx := i
		s := a.project.Stocks[idx]
		price := "-"
		if s.Price > 0 {
			price = fmt.Sprintf("%.2f", s.Price)
		}
		a.stockContainer.Add(container.NewGridWithColumns(7,
			widget.NewLabel(s.Label),
			widget.NewLabel(lengthText(s.Length, u)),
			widget.NewLabel(fmt.Sprintf("%d", s.Quantity)),
			widget.NewLabel(s.Group),
			widget.NewLabel(price),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showStockDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.record("Delete Stock")
				a.project.Stocks = append(a.project.Stocks[:idx], a.project.Stocks[idx+1:]...)
				a.refreshStockList()
			}),
		))
	}
}

// showStockDialog edits the bar at idx, or adds a new one when idx < 0.
func (a *App) showStockDialog(idx int) {
	u := a.project.Settings.Units
	title, confirm := "Add Stock", "Add"
	s := model.NewStockBar("Bar 6000", 6000, 1)
	if idx >= 0 {
		title, confirm = "Edit Stock", "Save"
		s = a.project.Stocks[idx]
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetText(s.Label)
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(lengthText(s.Length, u))
	qtyEntry := widget.NewEntry()
	qtyEntry.SetText(fmt.Sprintf("%d", s.Quantity))
	groupEntry := widget.NewEntry()
	groupEntry.SetPlaceHolder("Any material")
	groupEntry.SetText(s.Group)
	priceEntry := widget.NewEntry()
	priceEntry.SetPlaceHolder("Price per bar")
	if s.Price > 0 {
		priceEntry.SetText(fmt.Sprintf("%.2f", s.Price))
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Length ("+u.String()+")", lengthEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Group", groupEntry),
			widget.NewFormItem("Price", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			f := stockForm{
				Label: labelEntry.Text, Length: lengthEntry.Text, Quantity: qtyEntry.Text,
				Group: groupEntry.Text, Price: priceEntry.Text,
			}
			if err := f.apply(&s, u); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.record(title)
			if idx >= 0 {
				a.project.Stocks[idx] = s
			} else {
				a.project.Stocks = append(a.project.Stocks, s)
			}
			a.refreshStockList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 350))
	form.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettings()
	return container.NewVScroll(a.settingsContainer)
}

// refreshSettings rebuilds the settings form from the project. Lengths are
// edited in the project's display units.
func (a *App) refreshSettings() {
	if a.settingsContainer == nil {
		return
	}
	a.settingsContainer.RemoveAll()
	s := &a.project.Settings
	u := s.Units

	lengthEntry := func(val *float64, label string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(lengthText(*val, u))
		e.OnSubmitted = func(text string) {
			v, err := parseSetting(text, u)
			if err != nil {
				dialog.ShowError(err, a.window)
				e.SetText(lengthText(*val, u))
				return
			}
			if v != *val {
				a.record("Change " + label)
				*val = v
				a.project.Result = nil
			}
		}
		return e
	}

	names := make([]string, 0, len(model.Units()))
	for _, unit := range model.Units() {
		names = append(names, unit.String())
	}
	unitSelect := widget.NewSelect(names, nil)
	unitSelect.SetSelected(u.String())
	unitSelect.OnChanged = func(selected string) {
		unit, err := model.ParseUnit(selected)
		if err != nil || unit == s.Units {
			return
		}
		a.record("Change Units")
		s.Units = unit
		a.refreshAll()
	}

	sym := " (" + u.String() + ")"
	cutting := widget.NewCard("Cutting", "Press Enter to apply a value", container.NewGridWithColumns(2,
		widget.NewLabel("Kerf / Blade Width"+sym), lengthEntry(&s.KerfWidth, "Kerf"),
		widget.NewLabel("Trim Left"+sym), lengthEntry(&s.TrimLeft, "Trim Left"),
		widget.NewLabel("Trim Right"+sym), lengthEntry(&s.TrimRight, "Trim Right"),
		widget.NewLabel("Minimum Offcut"+sym), lengthEntry(&s.MinOffcutLength, "Minimum Offcut"),
	))

	display := widget.NewCard("Display", "", container.NewGridWithColumns(2,
		widget.NewLabel("Units"), unitSelect,
	))

	reset := widget.NewButtonWithIcon("Reset to Defaults", theme.ViewRefreshIcon(), func() {
		a.record("Reset Settings")
		a.project.Settings = a.defaults
		a.refreshAll()
	})

	a.settingsContainer.Add(cutting)
	a.settingsContainer.Add(display)
	a.settingsContainer.Add(container.NewHBox(reset))
	a.settingsContainer.Refresh()
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack()
	a.refreshResults()
	return a.resultContainer
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderBarResults(a.project.Result))
	a.resultContainer.Refresh()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) optimizeAndShow() {
	if a.runOptimize() {
		a.tabs.SelectIndex(resultsTab)
	}
}

func (a *App) runOptimize() bool {
	if len(a.project.Parts) == 0 {
		dialog.ShowInformation("Nothing to optimize", "Add at least one part first.", a.window)
		return false
	}
	if len(a.project.Stocks) == 0 {
		dialog.ShowInformation("No stock", "Add at least one stock bar first.", a.window)
		return false
	}
	if err := model.ValidatePlanInput(a.project.Parts, a.project.Stocks, a.project.Settings); err != nil {
		dialog.ShowError(err, a.window)
		return false
	}

	plan := engine.New(a.project.Settings).Optimize(a.project.Parts, a.project.Stocks)
	a.project.Result = &plan
	a.logger.Info("optimized",
		zap.Int("bars", len(plan.UsedBars())),
		zap.Int("cuts", plan.CutCount()),
		zap.Int("unplaced", len(plan.Unplaced)),
		zap.Float64("efficiency", plan.TotalEfficiency()),
	)
	a.refreshResults()
	return true
}

func (a *App) newProject() {
	a.record("New Project")
	a.project = model.NewProject()
	a.project.Settings = a.defaults
	a.refreshAll()
}

// addOffcutsToStock turns the reusable remnants of the last plan into stock
// bars so the next run can draw from them.
func (a *App) addOffcutsToStock() {
	if a.project.Result == nil || len(a.project.Result.Offcuts) == 0 {
		dialog.ShowInformation("No offcuts", "Run the optimizer first. Only remnants above the minimum offcut length are kept.", a.window)
		return
	}
	a.record("Add Offcuts")
	for _, o := range a.project.Result.Offcuts {
		a.project.Stocks = append(a.project.Stocks, o.ToStockBar())
	}
	n := len(a.project.Result.Offcuts)
	a.project.Result = nil
	a.refreshStockList()
	a.refreshResults()
	dialog.ShowInformation("Offcuts Added", fmt.Sprintf("Added %d offcut bars to the stock list.", n), a.window)
}
