package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/model"
)

// showCompareDialog plans the project under the default kerf and trim
// scenarios and lists them side by side.
func (a *App) showCompareDialog() {
	if len(a.project.Parts) == 0 || len(a.project.Stocks) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add parts and stock first.", a.window)
		return
	}
	if err := model.ValidatePlanInput(a.project.Parts, a.project.Stocks, a.project.Settings); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	results := engine.CompareScenarios(engine.BuildDefaultScenarios(a.project.Settings), a.project.Parts, a.project.Stocks)

	grid := container.NewVBox(headerRow("Scenario", "Bars", "Cuts", "Waste", "Unplaced", "Cost", ""))
	grid.Add(widget.NewSeparator())
	for _, r := range results {
		apply := widget.NewButton("Use", func() {
			a.record("Apply " + r.Scenario.Name)
			a.project.Settings = r.Scenario.Settings
			plan := r.Plan
			a.project.Result = &plan
			a.refreshAll()
			a.tabs.SelectIndex(resultsTab)
		})
		cost := "-"
		if r.Cost > 0 {
			cost = fmt.Sprintf("%.2f", r.Cost)
		}
		grid.Add(container.NewGridWithColumns(7,
			widget.NewLabel(r.Scenario.Name),
			widget.NewLabel(strconv.Itoa(r.BarsUsed)),
			widget.NewLabel(strconv.Itoa(r.TotalCuts)),
			widget.NewLabel(fmt.Sprintf("%.1f%%", r.WastePercent)),
			widget.NewLabel(strconv.Itoa(r.UnplacedCount)),
			widget.NewLabel(cost),
			apply,
		))
	}

	d := dialog.NewCustom("Compare Scenarios", "Close", container.NewVScroll(grid), a.window)
	d.Resize(fyne.NewSize(800, 400))
	d.Show()
}

// showEstimateDialog answers how many bars of one length to buy for the
// current parts.
func (a *App) showEstimateDialog() {
	if len(a.project.Parts) == 0 {
		dialog.ShowInformation("No parts", "Add at least one part first.", a.window)
		return
	}
	u := a.project.Settings.Units

	barLength := 6000.0
	if len(a.project.Stocks) > 0 {
		barLength = a.project.Stocks[0].Length
	}
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(lengthText(barLength, u))
	wasteEntry := widget.NewEntry()
	wasteEntry.SetText("10")
	priceEntry := widget.NewEntry()
	priceEntry.SetPlaceHolder("0.00 (optional)")

	form := dialog.NewForm("Purchase Estimate", "Estimate", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Bar Length ("+u.String()+")", lengthEntry),
			widget.NewFormItem("Waste Allowance (%)", wasteEntry),
			widget.NewFormItem("Price per Bar", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			length, err := parseLength(lengthEntry.Text, u)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			waste, err := parsePrice(wasteEntry.Text)
			if err != nil {
				dialog.ShowError(fmt.Errorf("waste allowance must be a number >= 0"), a.window)
				return
			}
			price, err := parsePrice(priceEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			est := model.CalculatePurchaseEstimate(a.project.Parts, length, a.project.Settings.KerfWidth, waste, price)
			dialog.ShowInformation("Purchase Estimate", estimateText(est, u), a.window)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 280))
	form.Show()
}

func estimateText(est model.PurchaseEstimate, u model.Unit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total cut length: %s (kerf %s per cut)\n", u.Format(est.TotalCutLength), u.Format(est.KerfWidth))
	fmt.Fprintf(&b, "Bars needed: %d (%.2f exact)\n", est.BarsNeededMin, est.BarsNeededExact)
	fmt.Fprintf(&b, "With %.0f%% waste: %d bars\n", est.WastePercent, est.BarsWithWaste)
	if est.PricePerBar > 0 {
		fmt.Fprintf(&b, "Estimated cost: %.2f\n", est.EstimatedCost)
	}
	if len(est.Oversize) > 0 {
		b.WriteString("\nLonger than one bar:\n")
		for _, p := range est.Oversize {
			fmt.Fprintf(&b, "  %s %s x%d\n", p.Label, u.Format(p.Length), p.Quantity)
		}
	}
	return b.String()
}
