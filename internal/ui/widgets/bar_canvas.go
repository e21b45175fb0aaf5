package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LineCut/internal/model"
)

// Part colors cycle for visual distinction.
var partColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 220},  // green
	{R: 33, G: 150, B: 243, A: 220}, // blue
	{R: 255, G: 152, B: 0, A: 220},  // orange
	{R: 156, G: 39, B: 176, A: 220}, // purple
	{R: 0, G: 188, B: 212, A: 220},  // cyan
	{R: 244, G: 67, B: 54, A: 220},  // red
	{R: 255, G: 235, B: 59, A: 220}, // yellow
	{R: 121, G: 85, B: 72, A: 220},  // brown
}

var (
	stockColor   = color.NRGBA{R: 220, G: 220, B: 225, A: 255}
	trimColor    = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
	kerfColor    = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	offcutColor  = color.NRGBA{R: 120, G: 200, B: 120, A: 90}
	outlineColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
)

const barHeight float32 = 36

// BarCanvas draws one stock bar with its cuts, kerf and trim to scale.
type BarCanvas struct {
	widget.BaseWidget
	bar      model.BarResult
	settings model.CutSettings
	offcut   bool // remnant is long enough to keep
	width    float32
}

func NewBarCanvas(bar model.BarResult, settings model.CutSettings, offcut bool, width float32) *BarCanvas {
	bc := &BarCanvas{bar: bar, settings: settings, offcut: offcut, width: width}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (bc *BarCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &barCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

type barCanvasRenderer struct {
	bc      *BarCanvas
	objects []fyne.CanvasObject
}

func (r *barCanvasRenderer) rect(fill color.Color, x, w float32) *canvas.Rectangle {
	rc := canvas.NewRectangle(fill)
	rc.Resize(fyne.NewSize(w, barHeight))
	rc.Move(fyne.NewPos(x, 0))
	r.objects = append(r.objects, rc)
	return rc
}

func (r *barCanvasRenderer) rebuild() {
	r.objects = nil
	bar := r.bc.bar
	if bar.Original <= 0 {
		return
	}
	scale := r.bc.width / float32(bar.Original)
	units := r.bc.settings.Units

	r.rect(stockColor, 0, r.bc.width)

	if t := r.bc.settings.TrimLeft; t > 0 {
		r.rect(trimColor, 0, float32(t)*scale)
	}
	if t := r.bc.settings.TrimRight; t > 0 {
		r.rect(trimColor, float32(bar.Original-t)*scale, float32(t)*scale)
	}

	for i, c := range bar.Cuts {
		x := float32(c.Position) * scale
		w := float32(c.Part.Length) * scale

		part := r.rect(partColors[i%len(partColors)], x, w)
		part.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		part.StrokeWidth = 1

		if k := float32(c.Allocated-c.Part.Length) * scale; k > 0 {
			r.rect(kerfColor, x+w, k)
		}

		if w > 40 {
			label := canvas.NewText(fmt.Sprintf("%s %s", c.Part.Label, units.Format(c.Part.Length)), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(x+3, barHeight/2-7))
			r.objects = append(r.objects, label)
		}
	}

	if bar.Remaining > 0 && r.bc.offcut && len(bar.Cuts) > 0 {
		x := float32(r.bc.settings.TrimLeft+bar.Usable-bar.Remaining) * scale
		r.rect(offcutColor, x, float32(bar.Remaining)*scale)
	}

	border := r.rect(color.Transparent, 0, r.bc.width)
	border.StrokeColor = outlineColor
	border.StrokeWidth = 2
}

func (r *barCanvasRenderer) Layout(size fyne.Size)        {}
func (r *barCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *barCanvasRenderer) Destroy()                     {}
func (r *barCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *barCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.bc.width, barHeight)
}

// RenderBarResults creates a scrollable list of every used bar.
func RenderBarResults(plan *model.CutPlan) fyne.CanvasObject {
	if plan == nil || len(plan.Bars) == 0 {
		return widget.NewLabel("No results yet. Add parts and stock, then click Optimize.")
	}

	units := plan.Settings.Units
	offcutBars := make(map[int]bool, len(plan.Offcuts))
	for _, o := range plan.Offcuts {
		offcutBars[o.BarID] = true
	}

	var items []fyne.CanvasObject
	for _, bar := range plan.UsedBars() {
		header := widget.NewLabel(fmt.Sprintf(
			"Bar %d: %s (%s), %d cuts, %s left, %.1f%% efficiency",
			bar.ID, bar.Stock.Label, units.Format(bar.Original),
			len(bar.Cuts), units.Format(bar.Remaining), bar.Efficiency(),
		))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewBarCanvas(bar, plan.Settings, offcutBars[bar.ID], 700), widget.NewSeparator())
	}

	if len(plan.Unplaced) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d cuts could not be placed! Add more stock.",
			len(plan.Unplaced),
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
		for _, p := range plan.Unplaced {
			items = append(items, widget.NewLabel(fmt.Sprintf("  %s  %s", p.Label, units.Format(p.Length))))
		}
	}

	if lines := LengthBreakdown(*plan); len(lines) > 1 {
		breakdownHeader := widget.NewLabel("Stock Length Breakdown:")
		breakdownHeader.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, widget.NewSeparator(), breakdownHeader)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
	}

	summaryText := fmt.Sprintf(
		"Total: %d of %d bars used, %d cuts, %.1f%% overall efficiency",
		len(plan.UsedBars()), len(plan.Bars), plan.CutCount(), plan.TotalEfficiency(),
	)
	if cost := plan.TotalCost(); cost > 0 {
		summaryText += fmt.Sprintf(" | Estimated material cost: %.2f", cost)
	}
	if n := len(plan.Offcuts); n > 0 {
		summaryText += fmt.Sprintf(" | %d reusable offcuts (%s)", n, units.Format(model.TotalOffcutLength(plan.Offcuts)))
	}
	summary := widget.NewLabel(summaryText)
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

// LengthBreakdown groups used bars by stock length, in first-seen order.
func LengthBreakdown(plan model.CutPlan) []string {
	type stats struct {
		count, cuts int
		used, total float64
	}
	var order []float64
	byLength := make(map[float64]*stats)

	for _, bar := range plan.UsedBars() {
		s, ok := byLength[bar.Original]
		if !ok {
			s = &stats{}
			byLength[bar.Original] = s
			order = append(order, bar.Original)
		}
		s.count++
		s.cuts += len(bar.Cuts)
		s.used += bar.UsedLength()
		s.total += bar.Original
	}

	lines := make([]string, 0, len(order))
	for _, length := range order {
		s := byLength[length]
		lines = append(lines, fmt.Sprintf(
			"  %s: %d bar(s), %d cuts, %.1f%% efficiency",
			plan.Settings.Units.Format(length), s.count, s.cuts, s.used/s.total*100,
		))
	}
	return lines
}
