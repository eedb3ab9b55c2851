package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/WallCut/internal/model"
)

const (
	outcomesSheet = "Outcomes"
	summarySheet  = "Summary"
)

// ExportXLSX writes the run's outcomes as a workbook: an "Outcomes" sheet
// with one row per processed face and a "Summary" sheet with the aggregate
// metrics and run settings.
func ExportXLSX(path string, rep RunReport) error {
	if len(rep.Outcomes) == 0 {
		return fmt.Errorf("no outcomes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	// Sticky-error cell writer keeps the fill loops readable.
	var werr error
	set := func(sheet string, col, row int, value interface{}) {
		if werr != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err == nil {
			err = f.SetCellValue(sheet, cell, value)
		}
		werr = err
	}

	if err := f.SetSheetName(f.GetSheetName(0), outcomesSheet); err != nil {
		return fmt.Errorf("failed to name outcomes sheet: %w", err)
	}

	headers := []string{
		"Wall", "Face", "Room", "Result", "Failure", "Detail",
		"Height (ft)", "Height (mm)", "Face Height (ft)", "Remainder (ft)",
		"Perimeter (ft)", "Area (sq ft)", "New Face",
	}
	for i, h := range headers {
		set(outcomesSheet, i+1, 1, h)
	}

	rows := model.PerFaceMetrics(rep.Outcomes)
	for i, row := range rows {
		out := rep.Outcomes[i]
		r := i + 2

		set(outcomesSheet, 1, r, row.WallName)
		set(outcomesSheet, 2, r, row.FaceID)
		set(outcomesSheet, 3, r, row.RoomName)
		set(outcomesSheet, 4, r, string(row.Result))
		if row.Kind != "" {
			set(outcomesSheet, 5, r, string(row.Kind))
		}
		if out.Failure != nil {
			set(outcomesSheet, 6, r, out.Failure.Detail)
		}
		if row.Height > 0 {
			set(outcomesSheet, 7, r, row.Height)
			set(outcomesSheet, 8, r, row.HeightMM)
		}
		if out.FaceHeight > 0 {
			set(outcomesSheet, 9, r, out.FaceHeight)
		}
		if row.Remainder > 0 {
			set(outcomesSheet, 10, r, row.Remainder)
		}
		if out.Succeeded() {
			set(outcomesSheet, 11, r, row.Perimeter)
			set(outcomesSheet, 12, r, row.Area)
		}
		set(outcomesSheet, 13, r, out.NewFaceID)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	m := rep.Metrics
	s := rep.Settings
	summary := [][2]interface{}{
		{"Document", rep.DocName},
		{"Generated", rep.Timestamp.Format("2006-01-02 15:04:05")},
		{"Height Policy", string(s.HeightPolicy)},
		{"Faces Processed", m.TotalFaces},
		{"Successful Splits", m.Successes},
		{"Failures", m.Failures},
		{"Success Rate (%)", m.SuccessRate},
		{"Total Split Height (ft)", m.TotalHeight},
		{"Mean Split Height (ft)", m.MeanHeight},
		{"Total Profile Perimeter (ft)", m.TotalPerimeter},
		{"Total Split Area (sq ft)", m.TotalSplitArea},
		{"Thin Remainder Warnings", len(rep.Slivers)},
	}
	for i, item := range summary {
		set(summarySheet, 1, i+1, item[0])
		set(summarySheet, 2, i+1, item[1])
	}

	if m.Failures > 0 {
		kinds := make([]string, 0, len(m.ByKind))
		for k := range m.ByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		r := len(summary) + 2
		set(summarySheet, 1, r, "Failures by Kind")
		for _, k := range kinds {
			r++
			set(summarySheet, 1, r, k)
			set(summarySheet, 2, r, m.ByKind[model.FailureKind(k)])
		}
	}

	if werr != nil {
		return fmt.Errorf("failed to write workbook cells: %w", werr)
	}

	// Readable column widths; best effort, the data is already in place.
	_ = f.SetColWidth(outcomesSheet, "A", "C", 18)
	_ = f.SetColWidth(outcomesSheet, "D", "E", 14)
	_ = f.SetColWidth(outcomesSheet, "F", "F", 40)
	_ = f.SetColWidth(outcomesSheet, "G", "M", 13)
	_ = f.SetColWidth(summarySheet, "A", "A", 28)
	_ = f.SetColWidth(summarySheet, "B", "B", 22)

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(outcomesSheet, "A1", lastCol, style)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
