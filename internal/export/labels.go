package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/LineCut/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each cut label's QR code.
type LabelInfo struct {
	PartLabel string  `json:"label"`
	Length    float64 `json:"length"`
	BarID     int     `json:"bar"`
	BarLabel  string  `json:"-"`
	Position  float64 `json:"position"`
	Group     string  `json:"-"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels writes a PDF of QR-coded labels, one per placed cut, to path.
func ExportLabels(path string, plan model.CutPlan) error {
	pdf, err := buildLabelsPDF(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels writes the label PDF for plan to w.
func WriteLabels(w io.Writer, plan model.CutPlan) error {
	pdf, err := buildLabelsPDF(plan)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write labels: %w", err)
	}
	return nil
}

func buildLabelsPDF(plan model.CutPlan) (*fpdf.Fpdf, error) {
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no cuts placed to generate labels for: %w", ErrNothingToExport)
	}
	units := plan.Settings.Units

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label, units); err != nil {
			return nil, fmt.Errorf("render label for %q: %w", label.PartLabel, err)
		}
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, info LabelInfo, units model.Unit) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, info.PartLabel, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, units.Format(info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	barInfo := fitText(pdf, fmt.Sprintf("Bar %d %s", info.BarID, info.BarLabel), textW)
	pdf.CellFormat(textW, 3, barInfo, "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+12)
	pdf.CellFormat(textW, 3, "@ "+units.Format(info.Position), "", 1, "L", false, 0, "")

	if info.Group != "" {
		pdf.SetXY(textX, y+labelPadding+15.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fitText(pdf, info.Group, textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists one label per placed cut, bar by bar in cut order.
func CollectLabelInfos(plan model.CutPlan) []LabelInfo {
	var labels []LabelInfo
	for _, bar := range plan.Bars {
		for _, c := range bar.Cuts {
			labels = append(labels, LabelInfo{
				PartLabel: c.Part.Label,
				Length:    c.Part.Length,
				BarID:     bar.ID,
				BarLabel:  bar.Stock.Label,
				Position:  c.Position,
				Group:     c.Part.Group,
			})
		}
	}
	return labels
}
