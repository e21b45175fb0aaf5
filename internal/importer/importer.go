// Package importer reads part and stock lists from CSV, Excel and DXF files.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/LineCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Kind selects what a tabular file describes.
type Kind int

const (
	KindParts Kind = iota // Required cuts
	KindStock             // Available bars
)

func (k Kind) String() string {
	if k == KindStock {
		return "stock"
	}
	return "parts"
}

// Options control how imported values are interpreted.
type Options struct {
	Kind  Kind
	Units model.Unit // Unit of the length column; empty means mm
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Parts    []model.Part
	Stocks   []model.StockBar
	Errors   []string
	Warnings []string
}

// Count returns the number of imported rows of either kind.
func (r ImportResult) Count() int {
	return len(r.Parts) + len(r.Stocks)
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Length   int
	Quantity int
	Group    int
	Price    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "part", "part name", "description", "desc", "piece", "item", "stock", "profile name"},
	"length":   {"length", "len", "l", "size", "cut", "cut length", "length (mm)", "stock length"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"group":    {"group", "material", "profile", "type", "section"},
	"price":    {"price", "cost", "unit price", "price per bar"},
}

// positional mappings used when the first row is not a header.
var (
	labelFirst  = ColumnMapping{Label: 0, Length: 1, Quantity: 2, Group: 3, Price: 4}
	lengthFirst = ColumnMapping{Length: 0, Quantity: 1, Label: 2, Group: 3, Price: 4}
)

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping and false if no header was found. A headerless row that starts with
// a number is read as length, quantity, label.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Label:    -1,
		Length:   -1,
		Quantity: -1,
		Group:    -1,
		Price:    -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				case "group":
					if mapping.Group == -1 {
						mapping.Group = i
					}
				case "price":
					if mapping.Price == -1 {
						mapping.Price = i
					}
				}
			}
		}
	}

	if isHeader {
		return mapping, true
	}
	if _, err := parseNumber(getCell(row, 0)); err == nil {
		return lengthFirst, false
	}
	return labelFirst, false
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts a decimal comma when the value has no decimal point.
func parseNumber(s string) (float64, error) {
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// row is one parsed line before it becomes a part or a stock bar.
type row struct {
	label  string
	length float64
	qty    int
	group  string
	price  float64
}

// parseRow extracts a row using the given column mapping.
// Returns the row and any error message.
func parseRow(cells []string, mapping ColumnMapping, rowLabel string, opts Options) (row, string) {
	var r row
	r.label = getCell(cells, mapping.Label)
	r.group = getCell(cells, mapping.Group)

	lengthStr := getCell(cells, mapping.Length)
	if lengthStr == "" {
		return r, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := parseNumber(lengthStr)
	if err != nil {
		return r, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}
	r.length = opts.Units.ToMillimeters(length)

	r.qty = 1
	if qtyStr := getCell(cells, mapping.Quantity); qtyStr != "" {
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return r, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
		r.qty = qty
	}

	if r.length <= 0 || r.qty <= 0 {
		return r, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel)
	}

	if opts.Kind == KindStock {
		if priceStr := getCell(cells, mapping.Price); priceStr != "" {
			price, err := parseNumber(priceStr)
			if err != nil || price < 0 {
				return r, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr)
			}
			r.price = price
		}
	}

	return r, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile picks the importer from the file extension.
func ImportFile(path string, opts Options) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, opts)
	case ".dxf":
		if opts.Kind == KindStock {
			return ImportResult{Errors: []string{"DXF files can only be imported as parts"}}
		}
		return ImportDXF(path)
	default:
		return ImportCSV(path, opts)
	}
}

// ImportCSV imports parts or stock from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", opts, warnings)
}

// ImportCSVFromReader imports from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", opts, nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports parts or stock from an Excel (.xlsx, .xls) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", opts, nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row.
func importFromRows(rows [][]string, rowPrefix string, opts Options, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}
	if !opts.Units.Valid() {
		result.Errors = append(result.Errors, fmt.Sprintf("Unknown unit %q", opts.Units))
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Length")
			return result
		}
	} else if mapping == labelFirst && len(rows[0]) >= 2 {
		// No length in the expected column: an unrecognized header
		if _, err := parseNumber(getCell(rows[0], labelFirst.Length)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		cells := rows[i]
		if isEmptyRow(cells) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		r, errMsg := parseRow(cells, mapping, rowLabel, opts)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		switch opts.Kind {
		case KindStock:
			if r.label == "" {
				r.label = fmt.Sprintf("Stock %d", len(result.Stocks)+1)
			}
			bar := model.NewStockBar(r.label, r.length, r.qty)
			bar.Group = r.group
			bar.Price = r.price
			result.Stocks = append(result.Stocks, bar)
		default:
			if r.label == "" {
				r.label = fmt.Sprintf("Part %d", len(result.Parts)+1)
			}
			part := model.NewPart(r.label, r.length, r.qty)
			part.Group = r.group
			result.Parts = append(result.Parts, part)
		}
	}

	if result.Count() == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
