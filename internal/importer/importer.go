// Package importer reads batches of pallet loading problems from CSV and
// Excel files, and pallet and box outlines from DXF drawings.
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

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Problems []model.Problem
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label     int
	Length    int
	Width     int
	BoxLength int
	BoxWidth  int
	Depth     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":      {"label", "name", "id", "pallet", "description", "desc", "item"},
	"length":     {"length", "pallet length", "pallet_length", "pl", "l_pallet"},
	"width":      {"width", "pallet width", "pallet_width", "pw", "w_pallet"},
	"box_length": {"box length", "box_length", "boxlength", "bl", "l_box", "carton length"},
	"box_width":  {"box width", "box_width", "boxwidth", "bw", "w_box", "carton width"},
	"depth":      {"depth", "max depth", "depth limit", "levels"},
}

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
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

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

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping label, L, W, l, w, depth and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Length: -1, Width: -1, BoxLength: -1, BoxWidth: -1, Depth: -1}
	slots := map[string]*int{
		"label":      &mapping.Label,
		"length":     &mapping.Length,
		"width":      &mapping.Width,
		"box_length": &mapping.BoxLength,
		"box_width":  &mapping.BoxWidth,
		"depth":      &mapping.Depth,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if *slots[role] == -1 {
						*slots[role] = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Length: 1, Width: 2, BoxLength: 3, BoxWidth: 4, Depth: 5}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension reads a positive integer. Values such as "29.0" are
// accepted as long as they are whole.
func parseDimension(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not a whole number")
	}
	return int(f), nil
}

// parseRow extracts a Problem from a row using the given column mapping.
// Returns the problem, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.Problem, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Pallet %d", count+1)
	}

	fields := []struct {
		name string
		idx  int
		val  int
	}{
		{name: "length", idx: mapping.Length},
		{name: "width", idx: mapping.Width},
		{name: "box length", idx: mapping.BoxLength},
		{name: "box width", idx: mapping.BoxWidth},
	}
	for i := range fields {
		s := getCell(row, fields[i].idx)
		if s == "" {
			return model.Problem{}, fmt.Sprintf("%s: Missing %s value", rowLabel, fields[i].name), ""
		}
		v, err := parseDimension(s)
		if err != nil {
			return model.Problem{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, fields[i].name, s), ""
		}
		if v <= 0 {
			return model.Problem{}, fmt.Sprintf("%s: Dimensions must be positive", rowLabel), ""
		}
		fields[i].val = v
	}

	p := model.NewProblem(label, fields[0].val, fields[1].val, fields[2].val, fields[3].val)
	if p.Length > engine.MaxDimension || p.Width > engine.MaxDimension {
		return model.Problem{}, fmt.Sprintf("%s: Pallet sides must not exceed %d", rowLabel, engine.MaxDimension), ""
	}

	var warning string
	if s := getCell(row, mapping.Depth); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 {
			warning = fmt.Sprintf("%s: Invalid depth '%s', using unbounded", rowLabel, s)
		} else {
			p.Depth = d
		}
	}
	if p.BoxLength > max(p.Length, p.Width) || p.BoxWidth > max(p.Length, p.Width) {
		if warning == "" {
			warning = fmt.Sprintf("%s: Box %dx%d does not fit on the pallet", rowLabel, p.BoxLength, p.BoxWidth)
		}
	}

	return p, "", warning
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

// ImportCSV imports problems from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
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
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports problems from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports problems from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
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

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "csv", "txt", "tsv":
		return ImportCSV(path)
	case "xlsx", "xlsm", "xls":
		return ImportExcel(path)
	case "dxf":
		return ImportDXF(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", ext)}}
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.BoxLength == -1 {
			missing = append(missing, "Box Length")
		}
		if mapping.BoxWidth == -1 {
			missing = append(missing, "Box Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header: the pallet length column is not numeric.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		p, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Problems))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Problems = append(result.Problems, p)
	}

	return result
}
