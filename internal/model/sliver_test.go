package model

import (
	"math"
	"testing"
)

func TestDetectSlivers(t *testing.T) {
	outcomes := []Outcome{
		// Comfortable remainder: 10 - 7 = 3 ft, no warning.
		{WallID: "w1", FaceID: "f1", Height: 7, FaceHeight: 10, Result: ResultSuccess},
		// Sliver: 10 - 9.9 = 0.1 ft remainder.
		{WallID: "w2", WallName: "Corridor", FaceID: "f2", Height: 9.9, FaceHeight: 10, Result: ResultSuccess},
		// Thinner sliver: 8 - 7.95 = 0.05 ft.
		{WallID: "w3", FaceID: "f3", Height: 7.95, FaceHeight: 8, Result: ResultSuccess},
		// Failures never produce warnings, whatever their numbers say.
		{WallID: "w4", FaceID: "f4", Height: 9.99, FaceHeight: 10, Result: ResultFailure,
			Failure: NewFailure(FailureMutationFailed, "")},
	}

	warnings := DetectSlivers(outcomes, 0)

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	// Sorted thinnest first.
	if warnings[0].WallID != "w3" || warnings[1].WallID != "w2" {
		t.Errorf("warnings not sorted thinnest first: %+v", warnings)
	}
	if math.Abs(warnings[0].Remainder-0.05) > 1e-9 {
		t.Errorf("Remainder = %v, want 0.05", warnings[0].Remainder)
	}
	if warnings[1].WallName != "Corridor" {
		t.Errorf("WallName not carried: %+v", warnings[1])
	}
}

func TestDetectSliversCustomThreshold(t *testing.T) {
	outcomes := []Outcome{
		{WallID: "w1", FaceID: "f1", Height: 9, FaceHeight: 10, Result: ResultSuccess},
	}

	if got := DetectSlivers(outcomes, 0.5); len(got) != 0 {
		t.Errorf("1 ft remainder under 0.5 threshold should not warn, got %+v", got)
	}
	if got := DetectSlivers(outcomes, 1.5); len(got) != 1 {
		t.Errorf("1 ft remainder under 1.5 threshold should warn, got %+v", got)
	}
}

func TestDetectSliversIgnoresUnknownFaceHeight(t *testing.T) {
	outcomes := []Outcome{
		{WallID: "w1", FaceID: "f1", Height: 9.9, FaceHeight: 0, Result: ResultSuccess},
	}
	if got := DetectSlivers(outcomes, 0); len(got) != 0 {
		t.Errorf("outcome without face height should be skipped, got %+v", got)
	}
}
