package project

import (
	"testing"
	"time"

	"github.com/piwi3910/WallCut/internal/model"
	"github.com/piwi3910/WallCut/internal/report"
)

func TestSaveRunAndRecentRuns(t *testing.T) {
	dir := t.TempDir()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		m := report.NewManifest("Tower", "/tmp/tower.wallcut.json", false, model.DefaultSettings())
		m.StartedAt = base.Add(time.Duration(i) * time.Hour)
		m.Finish([]model.Outcome{{WallID: "w1", Result: model.ResultSuccess, Height: 7}})
		if _, err := SaveRun(dir, m); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := RecentRuns(dir, 0)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	// Newest first
	if !runs[0].StartedAt.After(runs[1].StartedAt) || !runs[1].StartedAt.After(runs[2].StartedAt) {
		t.Errorf("runs not sorted newest first: %v %v %v",
			runs[0].StartedAt, runs[1].StartedAt, runs[2].StartedAt)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		m := report.NewManifest("Tower", "", true, model.DefaultSettings())
		m.StartedAt = time.Date(2026, 3, 1, i, 0, 0, 0, time.UTC)
		m.Finish(nil)
		if _, err := SaveRun(dir, m); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := RecentRuns(dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2 runs, got %d", len(runs))
	}
}

func TestRecentRunsMissingDir(t *testing.T) {
	runs, err := RecentRuns(t.TempDir()+"/never-created", 0)
	if err != nil {
		t.Fatalf("missing runs dir should be empty history, got error %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
