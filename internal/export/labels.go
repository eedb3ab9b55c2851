package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/WallCut/internal/model"
)

// LabelInfo holds the data encoded into each split label's QR code. Site
// crews scan it at the wall to pull up what was cut where.
type LabelInfo struct {
	WallName  string  `json:"wall"`
	FaceID    string  `json:"face"`
	NewFaceID string  `json:"new_face,omitempty"`
	RoomName  string  `json:"room"`
	RoomID    string  `json:"room_id,omitempty"`
	HeightFt  float64 `json:"height_ft"`
	HeightMM  float64 `json:"height_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// BuildLabelInfos extracts label data from a run's outcomes. Only
// successful splits get a label.
func BuildLabelInfos(outcomes []model.Outcome) []LabelInfo {
	var labels []LabelInfo
	for _, o := range outcomes {
		if !o.Succeeded() {
			continue
		}
		wallName := o.WallName
		if wallName == "" {
			wallName = o.WallID
		}
		labels = append(labels, LabelInfo{
			WallName:  wallName,
			FaceID:    o.FaceID,
			NewFaceID: o.NewFaceID,
			RoomName:  o.RoomName,
			RoomID:    o.RoomID,
			HeightFt:  o.Height,
			HeightMM:  model.FeetToMillimeters(o.Height),
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels for every successful
// split. Each label carries the wall and room names, the split height, and
// a QR code encoding the LabelInfo as JSON. Labels are laid out on a
// standard label sheet format (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportLabels(path string, outcomes []model.Outcome) error {
	if len(outcomes) == 0 {
		return fmt.Errorf("no outcomes to generate labels for")
	}

	labels := BuildLabelInfos(outcomes)
	if len(labels) == 0 {
		return fmt.Errorf("no successful splits to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label, i); err != nil {
			return fmt.Errorf("failed to render label for face %q: %w", label.FaceID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo, seq int) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_%s_%d", info.FaceID, seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Wall name (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate if too long
	wallName := info.WallName
	if pdf.GetStringWidth(wallName) > textW {
		for len(wallName) > 0 && pdf.GetStringWidth(wallName+"...") > textW {
			wallName = wallName[:len(wallName)-1]
		}
		wallName += "..."
	}
	pdf.CellFormat(textW, 4.5, wallName, "", 1, "L", false, 0, "")

	// Room and split height
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, info.RoomName, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+9)
	height := fmt.Sprintf("Split at %.0f mm (%s)", info.HeightMM, model.FormatFeetInches(info.HeightFt))
	pdf.CellFormat(textW, 3.5, height, "", 1, "L", false, 0, "")

	// Face lineage
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+13)
	lineage := info.FaceID
	if info.NewFaceID != "" {
		lineage = fmt.Sprintf("%s > %s", info.FaceID, info.NewFaceID)
	}
	pdf.CellFormat(textW, 3, lineage, "", 1, "L", false, 0, "")

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}
