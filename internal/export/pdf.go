package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/WallCut/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 18.0
	drawAreaTop  = marginTop + headerHeight + 8.0
)

// Elevation drawing colors.
var (
	faceFill  = [3]int{235, 233, 228}
	faceLine  = [3]int{100, 100, 100}
	bandFill  = [3]int{200, 230, 201}
	bandLine  = [3]int{76, 175, 80}
	splitLine = [3]int{244, 67, 54}
)

// ExportPDF generates the run report PDF: a summary page with run
// statistics and per-wall breakdown, followed by one elevation page per
// successful split showing the face outline and the applied profile.
// Elevation pages require face snapshots on the report; without them only
// the summary is rendered.
func ExportPDF(path string, rep RunReport) error {
	if len(rep.Outcomes) == 0 {
		return fmt.Errorf("no outcomes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderSummaryPage(pdf, rep)

	page := 1
	for _, out := range rep.Outcomes {
		face, profile, ok := rep.profileFor(out)
		if !ok {
			continue
		}
		page++
		pdf.AddPage()
		renderElevationPage(pdf, out, face, profile, page)
	}

	return pdf.OutputFileAndClose(path)
}

// wallRollup aggregates one wall's outcomes for the summary table.
type wallRollup struct {
	name        string
	faces       int
	splits      int
	failed      int
	totalHeight float64
}

// renderSummaryPage draws the first page: run statistics, failure
// breakdown, per-wall table, sliver warnings, and the settings used.
func renderSummaryPage(pdf *fpdf.Fpdf, rep RunReport) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Wall Split Run Report", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+10)
	sub := fmt.Sprintf("Document: %s | %s | Policy: %s",
		rep.DocName, rep.Timestamp.Format("2006-01-02 15:04"), rep.Settings.HeightPolicy)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, sub, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+17, pageWidth-marginRight, marginTop+17)

	y := marginTop + 22

	// Overall statistics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	m := rep.Metrics
	summaryItems := []struct {
		label string
		value string
	}{
		{"Faces Processed", fmt.Sprintf("%d", m.TotalFaces)},
		{"Successful Splits", fmt.Sprintf("%d", m.Successes)},
		{"Failures", fmt.Sprintf("%d", m.Failures)},
		{"Success Rate", fmt.Sprintf("%.1f%%", m.SuccessRate)},
		{"Mean Split Height", model.FormatFeet(m.MeanHeight)},
		{"Total Profile Perimeter", fmt.Sprintf("%.1f ft", m.TotalPerimeter)},
		{"Total Split Area", fmt.Sprintf("%.1f sq ft", m.TotalSplitArea)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}

	// Failure breakdown, stable order for reproducible reports
	if m.Failures > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Failures by Kind", "", 0, "L", false, 0, "")
		y += 8

		kinds := make([]string, 0, len(m.ByKind))
		for k := range m.ByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		pdf.SetFont("Helvetica", "", 9)
		for _, k := range kinds {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(60, 5, k, "", 0, "L", false, 0, "")
			pdf.CellFormat(20, 5, fmt.Sprintf("%d", m.ByKind[model.FailureKind(k)]), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Per-wall breakdown table on the right half of the page
	tableX := pageWidth/2 + 5
	ty := marginTop + 22

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(tableX, ty)
	pdf.CellFormat(100, 7, "Wall Breakdown", "", 0, "L", false, 0, "")
	ty += 9

	colWidths := []float64{52, 18, 18, 18, 30}
	headers := []string{"Wall", "Faces", "Splits", "Failed", "Mean Height"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := tableX
	for i, header := range headers {
		pdf.SetXY(xPos, ty)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	ty += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, w := range rollupWalls(rep.Outcomes) {
		mean := ""
		if w.splits > 0 {
			mean = model.FormatFeetInches(w.totalHeight / float64(w.splits))
		}
		rowData := []string{
			w.name,
			fmt.Sprintf("%d", w.faces),
			fmt.Sprintf("%d", w.splits),
			fmt.Sprintf("%d", w.failed),
			mean,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = tableX
		for j, cell := range rowData {
			pdf.SetXY(xPos, ty)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		ty += 6
	}

	// Thin-remainder warnings
	if len(rep.Slivers) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(130, 7, "WARNING: Thin Remainders", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, s := range rep.Slivers {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s / %s: %s left above the split (%s)",
				s.WallName, s.FaceID, model.FormatFeetInches(s.Remainder), s.RoomName)
			pdf.CellFormat(130, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Settings summary
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Run Settings", "", 0, "L", false, 0, "")
	y += 9

	s := rep.Settings
	settingsItems := []struct {
		label string
		value string
	}{
		{"Height Policy", string(s.HeightPolicy)},
		{"Unit Conversion Factor", fmt.Sprintf("%.6f", s.UnitConversionFactor)},
		{"Normal Angle Tolerance", fmt.Sprintf("%.2f", s.NormalAngleTolerance)},
		{"Probe Offsets", fmt.Sprintf("%v ft", s.OffsetSequence)},
		{"Curve Tolerance Multiplier", fmt.Sprintf("%.2f", s.CurveToleranceMultiplier)},
		{"Workers", fmt.Sprintf("%d", s.Workers)},
	}
	if s.Phase != "" {
		settingsItems = append(settingsItems, struct{ label, value string }{"Phase", s.Phase})
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(55, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by WallCut - Wall Face Split Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// rollupWalls aggregates outcomes per wall, preserving run order.
func rollupWalls(outcomes []model.Outcome) []wallRollup {
	index := map[string]int{}
	var rollups []wallRollup
	for _, o := range outcomes {
		i, ok := index[o.WallID]
		if !ok {
			name := o.WallName
			if name == "" {
				name = o.WallID
			}
			index[o.WallID] = len(rollups)
			rollups = append(rollups, wallRollup{name: name})
			i = len(rollups) - 1
		}
		rollups[i].faces++
		if o.Succeeded() {
			rollups[i].splits++
			rollups[i].totalHeight += o.Height
		} else {
			rollups[i].failed++
		}
	}
	return rollups
}

// renderElevationPage draws one face elevation: the face outline with its
// openings, the applied profile band, and the split line with dimension
// annotations.
func renderElevationPage(pdf *fpdf.Fpdf, out model.Outcome, face model.Face, profile model.Profile, pageNum int) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	wallName := out.WallName
	if wallName == "" {
		wallName = out.WallID
	}
	title := fmt.Sprintf("Wall %s - Face %s", wallName, out.FaceID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Room: %s | Split height: %s | Perimeter: %.1f ft | Area: %.1f sq ft",
		out.RoomName, model.FormatFeet(out.Height), out.ProfilePerimeter, out.ProfileArea)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Project the vertical face onto (u, z) drawing coordinates.
	axis := horizontalAxis(face.Normal)
	uMin, uMax, zMin, zMax := faceExtents(face.Outer(), axis)
	if uMax-uMin < 1e-9 || zMax-zMin < 1e-9 {
		return
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scaleX := drawWidth / (uMax - uMin)
	scaleY := drawHeight / (zMax - zMin)
	scale := math.Min(scaleX, scaleY)

	canvasW := (uMax - uMin) * scale
	canvasH := (zMax - zMin) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	mapPoint := func(p model.Point3) fpdf.PointType {
		u := p.Vec().Dot(axis)
		return fpdf.PointType{
			X: offsetX + (u-uMin)*scale,
			Y: offsetY + (zMax-p.Z)*scale,
		}
	}

	// Face outline
	pdf.SetFillColor(faceFill[0], faceFill[1], faceFill[2])
	pdf.SetDrawColor(faceLine[0], faceLine[1], faceLine[2])
	pdf.SetLineWidth(0.5)
	pdf.Polygon(loopPoints(face.Outer(), mapPoint), "FD")

	// Openings
	for _, hole := range face.Loops[1:] {
		pdf.SetFillColor(255, 255, 255)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(loopPoints(hole, mapPoint), "FD")
	}

	// Applied profile band
	pdf.SetFillColor(bandFill[0], bandFill[1], bandFill[2])
	pdf.SetDrawColor(bandLine[0], bandLine[1], bandLine[2])
	pdf.SetLineWidth(0.3)
	pdf.Polygon(loopPoints(profile.Loop, mapPoint), "FD")

	// Split line across the full face width
	splitZ := zMin + out.Height
	splitY := offsetY + (zMax-splitZ)*scale
	pdf.SetDrawColor(splitLine[0], splitLine[1], splitLine[2])
	pdf.SetLineWidth(0.6)
	pdf.Line(offsetX, splitY, offsetX+canvasW, splitY)

	// Split height annotation on the right edge
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(splitLine[0], splitLine[1], splitLine[2])
	pdf.SetXY(offsetX+canvasW+2, splitY-2)
	pdf.CellFormat(30, 4, model.FormatFeetInches(out.Height), "", 0, "L", false, 0, "")

	// Dimension annotations
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f ft", uMax-uMin)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.2f ft", zMax-zMin)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	// Legend
	legendY := offsetY + canvasH + 7
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, legendY)
	legend := fmt.Sprintf("Room %s | Face height %s | Split at %s",
		out.RoomName, model.FormatFeetInches(out.FaceHeight), model.FormatFeetInches(out.Height))
	if out.NewFaceID != "" {
		legend += fmt.Sprintf(" | New face %s", out.NewFaceID)
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, legend, "", 0, "L", false, 0, "")

	// Page number
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, fmt.Sprintf("Page %d", pageNum), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// horizontalAxis returns the unit in-plane horizontal direction of a
// vertical face: the cross product of its normal with the Z axis.
func horizontalAxis(normal model.Point3) mgl64.Vec3 {
	axis := normal.Vec().Cross(mgl64.Vec3{0, 0, 1})
	if axis.Len() < 1e-9 {
		return mgl64.Vec3{1, 0, 0}
	}
	return axis.Normalize()
}

// faceExtents returns the drawing bounds of a loop projected onto the
// horizontal axis and elevation.
func faceExtents(loop model.BoundaryLoop, axis mgl64.Vec3) (uMin, uMax, zMin, zMax float64) {
	verts := loop.Vertices()
	if len(verts) == 0 {
		return 0, 0, 0, 0
	}
	uMin = verts[0].Vec().Dot(axis)
	uMax = uMin
	zMin, zMax = verts[0].Z, verts[0].Z
	for _, v := range verts[1:] {
		u := v.Vec().Dot(axis)
		uMin = math.Min(uMin, u)
		uMax = math.Max(uMax, u)
		zMin = math.Min(zMin, v.Z)
		zMax = math.Max(zMax, v.Z)
	}
	return uMin, uMax, zMin, zMax
}

// loopPoints maps a boundary loop's curve start points into page
// coordinates for polygon drawing.
func loopPoints(loop model.BoundaryLoop, mapPoint func(model.Point3) fpdf.PointType) []fpdf.PointType {
	points := make([]fpdf.PointType, 0, len(loop))
	for _, c := range loop {
		points = append(points, mapPoint(c.Start))
	}
	return points
}
