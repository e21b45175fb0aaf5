// Package export renders cut lists and allocation results to PDF, XLSX,
// QR-coded labels and plain text.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/LineCut/internal/model"
)

// ErrNothingToExport is returned when a plan or result holds no bars and no
// unplaced cuts.
var ErrNothingToExport = errors.New("nothing to export")

// partColor represents an RGB color for a placed cut.
type partColor struct {
	R, G, B int
}

// partColors mirrors the color scheme used in the UI bar canvas widget.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	barHeight    = 9.0
	barSpacing   = 9.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// cutListColumns are the table columns shared by the plan and allocation PDFs.
var (
	cutListHeaders = []string{"Stock #", "Original", "Cuts", "Remaining"}
	cutListWidths  = []float64{25, 40, 167, 35}
)

// ExportPDF writes the cut list for plan to path.
func ExportPDF(path string, plan model.CutPlan) error {
	pdf, err := buildPlanPDF(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF writes the cut list for plan to w. The document starts with a
// summary and the cut table, followed by a diagram of every used bar.
func WritePDF(w io.Writer, plan model.CutPlan) error {
	pdf, err := buildPlanPDF(plan)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WriteAllocationPDF writes the plain cut table for a raw allocation result.
func WriteAllocationPDF(w io.Writer, result model.AllocationResult) error {
	if len(result.Stock) == 0 && len(result.Waste) == 0 {
		return ErrNothingToExport
	}

	pdf := newDocument()
	pdf.AddPage()
	y := renderTitle(pdf, "Cut List")

	rows := make([][]string, 0, len(result.Stock))
	for _, p := range result.Stock {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			model.UnitMillimeter.Format(p.Original),
			joinLengths(p.Cuts, model.UnitMillimeter),
			model.UnitMillimeter.Format(p.Remaining),
		})
	}
	y = renderTable(pdf, y, cutListHeaders, cutListWidths, rows)
	renderWaste(pdf, y+4, joinLengths(result.Waste, model.UnitMillimeter), len(result.Waste))
	renderFooter(pdf)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	return pdf
}

func buildPlanPDF(plan model.CutPlan) (*fpdf.Fpdf, error) {
	if len(plan.Bars) == 0 && len(plan.Unplaced) == 0 {
		return nil, ErrNothingToExport
	}
	units := plan.Settings.Units

	pdf := newDocument()
	pdf.AddPage()
	y := renderTitle(pdf, "Cut List")
	y = renderSummary(pdf, y, plan)

	rows := make([][]string, 0, len(plan.Bars))
	for _, bar := range plan.Bars {
		lengths := make([]float64, 0, len(bar.Cuts))
		for _, c := range bar.Cuts {
			lengths = append(lengths, c.Part.Length)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", bar.ID),
			units.Format(bar.Original),
			joinLengths(lengths, units),
			units.Format(bar.Remaining),
		})
	}
	y = renderTable(pdf, y, cutListHeaders, cutListWidths, rows)

	unplaced := make([]string, 0, len(plan.Unplaced))
	for _, p := range plan.Unplaced {
		unplaced = append(unplaced, fmt.Sprintf("%s (%s)", p.Label, units.Format(p.Length)))
	}
	renderWaste(pdf, y+4, strings.Join(unplaced, ", "), len(unplaced))
	renderFooter(pdf)

	used := plan.UsedBars()
	if len(used) > 0 {
		pdf.AddPage()
		y = renderTitle(pdf, "Bar Diagrams")
		for _, bar := range used {
			if y+barHeight+barSpacing > pageHeight-marginBottom {
				renderFooter(pdf)
				pdf.AddPage()
				y = renderTitle(pdf, "Bar Diagrams (continued)")
			}
			drawBar(pdf, y, bar, plan.Settings)
			y += barHeight + barSpacing
		}
		renderFooter(pdf)
	}

	return pdf, nil
}

// renderTitle draws a page title and returns the y position below it.
func renderTitle(pdf *fpdf.Fpdf, title string) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 10, title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight, pageWidth-marginRight, marginTop+headerHeight)

	return marginTop + headerHeight + 5
}

func renderSummary(pdf *fpdf.Fpdf, y float64, plan model.CutPlan) float64 {
	units := plan.Settings.Units

	items := []struct {
		label string
		value string
	}{
		{"Bars Used", fmt.Sprintf("%d of %d", len(plan.UsedBars()), len(plan.Bars))},
		{"Cuts Placed", fmt.Sprintf("%d", plan.CutCount())},
		{"Unplaced Cuts", fmt.Sprintf("%d", len(plan.Unplaced))},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", plan.TotalEfficiency())},
		{"Kerf / Trim", fmt.Sprintf("%s / %s + %s", units.Format(plan.Settings.KerfWidth),
			units.Format(plan.Settings.TrimLeft), units.Format(plan.Settings.TrimRight))},
	}
	if cost := plan.TotalCost(); cost > 0 {
		items = append(items, struct {
			label string
			value string
		}{"Material Cost", fmt.Sprintf("%.2f", cost)})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}
	return y + 5
}

// renderTable draws a bordered table with a shaded header row, continuing on
// a new page when the current one is full. It returns the y position below the
// last row.
func renderTable(pdf *fpdf.Fpdf, y float64, headers []string, widths []float64, rows [][]string) float64 {
	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, y)
			pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		y += rowHeight
	}
	header()

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if y+rowHeight > pageHeight-marginBottom {
			renderFooter(pdf)
			pdf.AddPage()
			y = marginTop
			header()
			pdf.SetFont("Helvetica", "", 9)
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		x := marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(widths[j], rowHeight, fitText(pdf, cell, widths[j]-2), "1", 0, "C", true, 0, "")
			x += widths[j]
		}
		y += rowHeight
	}
	return y
}

func renderWaste(pdf *fpdf.Fpdf, y float64, text string, count int) {
	if y+7 > pageHeight-marginBottom {
		renderFooter(pdf)
		pdf.AddPage()
		y = marginTop
	}
	pdf.SetXY(marginLeft, y)
	if count == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 120, 0)
		pdf.CellFormat(contentWidth, 6, "Waste: none", "", 0, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(contentWidth, 6, fitText(pdf, fmt.Sprintf("Waste (%d): %s", count, text), contentWidth), "", 0, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, "Generated by LineCut - Linear Cut List Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawBar renders one bar as a horizontal strip scaled to the content width:
// trim zones in grey, cuts in rotating colors, the remainder hatched.
func drawBar(pdf *fpdf.Fpdf, y float64, bar model.BarResult, settings model.CutSettings) {
	units := settings.Units

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y-4.5)
	caption := fmt.Sprintf("#%d %s  %s  (%.1f%%)", bar.ID, bar.Stock.Label, units.Format(bar.Original), bar.Efficiency())
	pdf.CellFormat(contentWidth, 4, caption, "", 0, "L", false, 0, "")

	if bar.Original <= 0 {
		return
	}
	scale := contentWidth / bar.Original

	// Stock background (raw metal)
	pdf.SetFillColor(220, 220, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, y, contentWidth, barHeight, "FD")

	pdf.SetFillColor(170, 170, 170)
	if settings.TrimLeft > 0 {
		pdf.Rect(marginLeft, y, settings.TrimLeft*scale, barHeight, "F")
	}
	if settings.TrimRight > 0 {
		pdf.Rect(marginLeft+(bar.Original-settings.TrimRight)*scale, y, settings.TrimRight*scale, barHeight, "F")
	}

	for i, c := range bar.Cuts {
		col := partColors[i%len(partColors)]
		x := marginLeft + c.Position*scale
		w := c.Part.Length * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, w, barHeight, "FD")

		// Kerf
		if k := (c.Allocated - c.Part.Length) * scale; k > 0 {
			pdf.SetFillColor(60, 60, 60)
			pdf.Rect(x+w, y, k, barHeight, "F")
		}

		if w > 12 {
			pdf.SetFont("Helvetica", "", labelFontSize(w))
			text := fitText(pdf, fmt.Sprintf("%s %s", c.Part.Label, units.Format(c.Part.Length)), w-1)
			tw := pdf.GetStringWidth(text)
			pdf.SetXY(x+(w-tw)/2, y+barHeight/2-2)
			pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
		}
	}

	if bar.Remaining > 0 {
		rx := marginLeft + (settings.TrimLeft+bar.Usable-bar.Remaining)*scale
		drawHatchPattern(pdf, rx, y, bar.Remaining*scale, barHeight)
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark unused stock.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.15)

	spacing := 2.5
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// labelFontSize returns a font size that suits a segment of width w.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 7
	case w > 20:
		return 6
	default:
		return 5
	}
}

// fitText truncates s with an ellipsis until it fits width at the current font.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// joinLengths formats lengths as a comma-separated list.
func joinLengths(lengths []float64, units model.Unit) string {
	if len(lengths) == 0 {
		return "-"
	}
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = units.Format(l)
	}
	return strings.Join(parts, ", ")
}
