package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

// loadInventory reads the stock presets from the default location. A broken
// inventory file is logged and replaced by the defaults in memory only.
func (a *App) loadInventory() {
	inv, path, err := project.LoadOrCreateInventory()
	if err != nil {
		a.logger.Warn("inventory unavailable", zap.String("path", path), zap.Error(err))
		a.inventory = model.DefaultInventory()
		return
	}
	a.inventory = inv
	a.inventoryPath = path
}

func (a *App) saveInventory() {
	if a.inventoryPath == "" {
		return
	}
	if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save inventory: %w", err), a.window)
	}
}

// ─── Stock Inventory Dialog ────────────────────────────────

func (a *App) showStockInventoryDialog() {
	stockList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		stockList.RemoveAll()

		if len(a.inventory.Stocks) == 0 {
			stockList.Add(widget.NewLabel("No stock presets defined."))
			return
		}

		u := a.project.Settings.Units
		stockList.Add(headerRow("Name", "Length", "Group", "Price/Bar", "", ""))
		stockList.Add(widget.NewSeparator())

		for i := range a.inventory.Stocks {
			s := a.inventory.Stocks[i]
			price := "-"
			if s.Price > 0 {
				price = fmt.Sprintf("%.2f", s.Price)
			}
			stockList.Add(container.NewGridWithColumns(6,
				widget.NewLabel(s.Name),
				widget.NewLabel(u.Format(s.Length)),
				widget.NewLabel(s.Group),
				widget.NewLabel(price),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showStockPresetDialog(s.ID, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.inventory.RemoveStock(s.ID)
					a.saveInventory()
					refreshList()
				}),
			))
		}
	}
	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Stock Preset", theme.ContentAddIcon(), func() {
		a.showStockPresetDialog("", refreshList)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importInventory(refreshList)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), a.exportInventory)

	content := container.NewBorder(
		container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn),
		nil, nil, nil,
		container.NewVScroll(stockList),
	)

	d := dialog.NewCustom("Stock Inventory", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

// showStockPresetDialog edits the preset with id, or adds one when id is "".
func (a *App) showStockPresetDialog(id string, onDone func()) {
	u := a.project.Settings.Units
	title, confirm := "Add Stock Preset", "Add"
	preset := model.NewStockPreset("New Bar", 6000, "", 0)
	if existing := a.inventory.FindStockByID(id); existing != nil {
		title, confirm = "Edit Stock Preset", "Save"
		preset = *existing
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(preset.Name)
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(lengthText(preset.Length, u))
	groupEntry := widget.NewEntry()
	groupEntry.SetPlaceHolder("e.g., Steel, Aluminium, Timber")
	groupEntry.SetText(preset.Group)
	priceEntry := widget.NewEntry()
	priceEntry.SetPlaceHolder("0.00 (optional)")
	if preset.Price > 0 {
		priceEntry.SetText(fmt.Sprintf("%.2f", preset.Price))
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Length ("+u.String()+")", lengthEntry),
			widget.NewFormItem("Group", groupEntry),
			widget.NewFormItem("Price per Bar", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			// Presets carry no quantity; reuse the stock form with a fixed one.
			bar := preset.ToStockBar(1)
			f := stockForm{Label: nameEntry.Text, Length: lengthEntry.Text, Quantity: "1", Group: groupEntry.Text, Price: priceEntry.Text}
			if err := f.apply(&bar, u); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			preset.Name, preset.Length, preset.Group, preset.Price = bar.Label, bar.Length, bar.Group, bar.Price

			if existing := a.inventory.FindStockByID(id); existing != nil {
				*existing = preset
			} else {
				a.inventory.Stocks = append(a.inventory.Stocks, preset)
			}
			a.saveInventory()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 350))
	form.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importInventory(onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		merged, err := project.ImportInventory(path, a.inventory)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.inventory = merged
		a.saveInventory()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Inventory now contains %d stock presets.", len(a.inventory.Stocks)),
			a.window)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json", ".yaml", ".yml"}))
	d.Show()
}

func (a *App) exportInventory() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SaveInventory(path, a.inventory); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Inventory exported to %s", path), a.window)
	}, a.window)
	d.SetFileName("inventory.json")
	d.Show()
}

// showAddFromInventoryDialog adds stock bars from a saved preset.
func (a *App) showAddFromInventoryDialog() {
	if len(a.inventory.Stocks) == 0 {
		dialog.ShowInformation("No Presets",
			"No stock presets defined. Use Tools > Stock Inventory to add presets.",
			a.window)
		return
	}

	names := a.inventory.StockNames()
	stockSelect := widget.NewSelect(names, nil)
	stockSelect.SetSelected(names[0])
	qtyEntry := widget.NewEntry()
	qtyEntry.SetText("1")

	form := dialog.NewForm("Add from Inventory", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Stock Preset", stockSelect),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			preset := a.inventory.FindStockByName(stockSelect.Selected)
			if preset == nil {
				return
			}
			qty, err := parseQuantity(qtyEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.record("Add Stock")
			a.project.Stocks = append(a.project.Stocks, preset.ToStockBar(qty))
			a.refreshStockList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 250))
	form.Show()
}
