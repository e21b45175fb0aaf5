package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/piwi3910/LineCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in exported workbooks.
const (
	CutListSheet = "CutList"
	WasteSheet   = "Waste"
)

// WriteAllocationXLSX writes a raw allocation result as a workbook with a
// "CutList" sheet (StockID, OriginalLength, Cuts, Remaining) and a "Waste"
// sheet listing unplaced cut lengths.
func WriteAllocationXLSX(w io.Writer, result model.AllocationResult) error {
	if len(result.Stock) == 0 && len(result.Waste) == 0 {
		return ErrNothingToExport
	}

	rows := make([][]any, 0, len(result.Stock))
	for _, p := range result.Stock {
		rows = append(rows, []any{p.ID, p.Original, formatLengths(p.Cuts), p.Remaining})
	}
	waste := make([][]any, 0, len(result.Waste))
	for _, l := range result.Waste {
		waste = append(waste, []any{l})
	}

	f, err := buildWorkbook(
		[]string{"StockID", "OriginalLength", "Cuts", "Remaining"}, rows,
		[]string{"Length"}, waste,
	)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// WriteXLSX writes a labeled plan. The CutList sheet keeps the allocation
// columns and adds the bar label, the part labels and the efficiency.
func WriteXLSX(w io.Writer, plan model.CutPlan) error {
	f, err := planWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ExportXLSX writes the plan workbook to path.
func ExportXLSX(path string, plan model.CutPlan) error {
	f, err := planWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}

func planWorkbook(plan model.CutPlan) (*excelize.File, error) {
	if len(plan.Bars) == 0 && len(plan.Unplaced) == 0 {
		return nil, ErrNothingToExport
	}

	rows := make([][]any, 0, len(plan.Bars))
	for _, bar := range plan.Bars {
		lengths := make([]float64, 0, len(bar.Cuts))
		labels := make([]string, 0, len(bar.Cuts))
		for _, c := range bar.Cuts {
			lengths = append(lengths, c.Part.Length)
			labels = append(labels, c.Part.Label)
		}
		rows = append(rows, []any{
			bar.ID,
			bar.Stock.Label,
			bar.Original,
			formatLengths(lengths),
			strings.Join(labels, ", "),
			bar.Remaining,
			round(bar.Efficiency(), 1),
		})
	}

	waste := make([][]any, 0, len(plan.Unplaced))
	for _, p := range plan.Unplaced {
		waste = append(waste, []any{p.Label, p.Length, p.Group})
	}

	return buildWorkbook(
		[]string{"StockID", "Stock", "OriginalLength", "Cuts", "Parts", "Remaining", "Efficiency"}, rows,
		[]string{"Label", "Length", "Group"}, waste,
	)
}

func buildWorkbook(cutHeaders []string, cutRows [][]any, wasteHeaders []string, wasteRows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", CutListSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(WasteSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create waste sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := fillSheet(f, CutListSheet, cutHeaders, cutRows, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := fillSheet(f, WasteSheet, wasteHeaders, wasteRows, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s row %d: %w", sheet, r+1, err)
			}
		}
	}
	return nil
}

// formatLengths joins lengths with ", " using the shortest exact decimal form.
func formatLengths(lengths []float64) string {
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = strconv.FormatFloat(l, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func round(v float64, places int) float64 {
	p, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return p
}
