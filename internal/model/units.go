package model

import (
	"fmt"
	"math"
)

// MillimetersPerFoot converts between the host model's internal length unit
// (decimal feet) and millimeters, the unit clearance schedules are normally
// entered in.
// 1 ft = 12" x 25.4 mm = 304.8 mm exactly (international foot).
const MillimetersPerFoot = 304.8

// MillimetersToFeet converts a millimeter length to decimal feet.
func MillimetersToFeet(mm float64) float64 {
	return mm / MillimetersPerFoot
}

// FeetToMillimeters converts a decimal-feet length to millimeters.
func FeetToMillimeters(ft float64) float64 {
	return ft * MillimetersPerFoot
}

// FormatFeetInches renders a decimal-feet length as feet and inches for
// report output, e.g. 6.8898 ft -> 6' 10.7".
func FormatFeetInches(ft float64) string {
	sign := ""
	if ft < 0 {
		sign = "-"
		ft = -ft
	}
	feet := math.Floor(ft)
	inches := (ft - feet) * 12.0
	// Carry when the fractional inches round up to a full foot.
	if inches > 11.95 {
		feet++
		inches = 0
	}
	return fmt.Sprintf("%s%d' %.1f\"", sign, int(feet), inches)
}

// FormatFeet renders a decimal-feet length with both unit systems,
// e.g. 6.8898 ft -> "6.890 ft (2100 mm)".
func FormatFeet(ft float64) string {
	return fmt.Sprintf("%.3f ft (%.0f mm)", ft, FeetToMillimeters(ft))
}
