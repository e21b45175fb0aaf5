package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/xuri/excelize/v2"
)

func readWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteAllocationXLSX(t *testing.T) {
	result := engine.Allocate([]float64{1200, 800, 800, 500, 9000}, []float64{2500, 3000})

	var buf bytes.Buffer
	if err := WriteAllocationXLSX(&buf, result); err != nil {
		t.Fatalf("WriteAllocationXLSX returned error: %v", err)
	}

	f := readWorkbook(t, buf.Bytes())

	rows, err := f.GetRows(CutListSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", CutListSheet, err)
	}
	want := [][]string{
		{"StockID", "OriginalLength", "Cuts", "Remaining"},
		{"1", "2500", "1200, 800, 500", "0"},
		{"2", "3000", "800", "2200"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("cell [%d][%d] = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}

	waste, err := f.GetRows(WasteSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", WasteSheet, err)
	}
	if len(waste) != 2 || waste[1][0] != "9000" {
		t.Errorf("unexpected waste sheet: %v", waste)
	}
}

func TestWriteAllocationXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAllocationXLSX(&buf, model.AllocationResult{}); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportXLSX_Plan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	if err := ExportXLSX(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(CutListSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 bar rows, got %d", len(rows))
	}
	if rows[0][1] != "Stock" || rows[0][4] != "Parts" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "40x40 tube" {
		t.Errorf("expected bar label in row 1, got %v", rows[1])
	}
}

func TestFormatLengths(t *testing.T) {
	if got := formatLengths([]float64{1200, 800.5, 0.25}); got != "1200, 800.5, 0.25" {
		t.Errorf("formatLengths = %q", got)
	}
	if got := formatLengths(nil); got != "" {
		t.Errorf("formatLengths(nil) = %q, want empty", got)
	}
}
