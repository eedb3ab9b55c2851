// Package importer reads room clearance schedules from CSV and Excel
// files and room footprints from DXF plans. It supports automatic
// delimiter detection, flexible column mapping, and case-insensitive
// header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/WallCut/internal/host/memdoc"
	"github.com/piwi3910/WallCut/internal/model"
)

// ClearanceRow is one schedule entry: the room it addresses and the
// clearance text to store on it. The value stays a string because the
// host attribute is free text; the pipeline parses it at run time.
type ClearanceRow struct {
	Number    string
	Name      string
	Clearance string
	Phase     string
}

// ImportResult holds the results of a schedule import.
type ImportResult struct {
	Rows     []ClearanceRow
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Number    int
	Name      int
	Clearance int
	Phase     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"number":    {"number", "room number", "room no", "no", "nr", "num"},
	"name":      {"name", "room", "room name"},
	"clearance": {"clearance", "clear height", "clearance height", "height", "mm", "value"},
	"phase":     {"phase", "stage"},
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
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Score: count how many rows have the same column count as the first row.
		// Only consider delimiters that produce more than 1 column.
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
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected, or
// a default positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Number:    -1,
		Name:      -1,
		Clearance: -1,
		Phase:     -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "number":
						if mapping.Number == -1 {
							mapping.Number = i
						}
					case "name":
						if mapping.Name == -1 {
							mapping.Name = i
						}
					case "clearance":
						if mapping.Clearance == -1 {
							mapping.Clearance = i
						}
					case "phase":
						if mapping.Phase == -1 {
							mapping.Phase = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: Number, Name, Clearance, Phase
		return ColumnMapping{
			Number:    0,
			Name:      1,
			Clearance: 2,
			Phase:     3,
		}, false
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

// parseRow extracts a ClearanceRow from a row using the given column mapping.
// Returns the row, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (ClearanceRow, string, string) {
	entry := ClearanceRow{
		Number:    getCell(row, mapping.Number),
		Name:      getCell(row, mapping.Name),
		Clearance: getCell(row, mapping.Clearance),
		Phase:     getCell(row, mapping.Phase),
	}

	if entry.Number == "" && entry.Name == "" {
		return ClearanceRow{}, fmt.Sprintf("%s: Missing room number and name", rowLabel), ""
	}
	if entry.Clearance == "" {
		return ClearanceRow{}, fmt.Sprintf("%s: Missing clearance value", rowLabel), ""
	}

	// The attribute is stored as-is, but a value the pipeline cannot
	// parse later deserves a heads-up now.
	var warning string
	if _, err := strconv.ParseFloat(entry.Clearance, 64); err != nil {
		warning = fmt.Sprintf("%s: Clearance '%s' is not numeric, faces in this room will fail height resolution", rowLabel, entry.Clearance)
	}

	return entry, "", warning
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

// ImportCSV imports clearance rows from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports clearance rows from a CSV reader with a specific
// delimiter. This is useful for testing or when the delimiter is already known.
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

// ImportExcel imports clearance rows from an Excel (.xlsx, .xls) file.
// Reads the first sheet and auto-detects column mapping from headers.
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

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into clearance rows.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Clearance == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: Clearance")
			return result
		}
		if mapping.Number == -1 && mapping.Name == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Number or Name")
			return result
		}
	} else if len(rows[0]) >= 3 {
		// No recognized header: if the clearance column of the first row
		// is not numeric it is probably an unrecognized header, so skip
		// it but keep the positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][2]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		entry, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Rows = append(result.Rows, entry)
	}

	return result
}

// ApplyClearances writes the schedule's clearance values onto matching
// rooms in a document file. Rooms match by number first, then by name,
// both case-insensitive. Returns the number of rooms updated and the
// schedule rows that matched nothing.
func ApplyClearances(f *memdoc.File, rows []ClearanceRow) (int, []ClearanceRow) {
	applied := 0
	var unmatched []ClearanceRow

	for _, row := range rows {
		matched := false
		for i := range f.Rooms {
			room := &f.Rooms[i].Room
			if !matchesRoom(*room, row) {
				continue
			}
			room.Clearance = &model.Attribute{
				Kind:  model.AttributeText,
				Value: row.Clearance,
			}
			if row.Phase != "" {
				room.Phase = row.Phase
			}
			applied++
			matched = true
		}
		if !matched {
			unmatched = append(unmatched, row)
		}
	}

	return applied, unmatched
}

func matchesRoom(room model.Room, row ClearanceRow) bool {
	if row.Number != "" && strings.EqualFold(room.Number, row.Number) {
		return true
	}
	return row.Name != "" && strings.EqualFold(room.Name, row.Name)
}
