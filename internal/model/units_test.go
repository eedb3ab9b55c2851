package model

import (
	"math"
	"testing"
)

func TestMillimetersToFeet(t *testing.T) {
	// 2100 mm is the canonical residential clearance value.
	got := MillimetersToFeet(2100)
	want := 2100.0 / 304.8
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("MillimetersToFeet(2100) = %v, want %v", got, want)
	}
	if math.Abs(got-6.8898) > 0.0001 {
		t.Errorf("MillimetersToFeet(2100) = %v, want about 6.8898", got)
	}
}

func TestFeetToMillimetersRoundTrip(t *testing.T) {
	for _, ft := range []float64{0, 1, 6.8898, 12.5, -3.25} {
		back := MillimetersToFeet(FeetToMillimeters(ft))
		if math.Abs(back-ft) > 1e-9 {
			t.Errorf("round trip of %v ft drifted to %v", ft, back)
		}
	}
}

func TestFormatFeetInches(t *testing.T) {
	tests := []struct {
		ft   float64
		want string
	}{
		{0, `0' 0.0"`},
		{1, `1' 0.0"`},
		{6.5, `6' 6.0"`},
		{6.8898, `6' 10.7"`},
		{-2.25, `-2' 3.0"`},
		{1.9999, `2' 0.0"`}, // carries instead of printing 12.0"
	}
	for _, tt := range tests {
		if got := FormatFeetInches(tt.ft); got != tt.want {
			t.Errorf("FormatFeetInches(%v) = %q, want %q", tt.ft, got, tt.want)
		}
	}
}

func TestFormatFeet(t *testing.T) {
	got := FormatFeet(6.8898)
	want := "6.890 ft (2100 mm)"
	if got != want {
		t.Errorf("FormatFeet = %q, want %q", got, want)
	}
}
