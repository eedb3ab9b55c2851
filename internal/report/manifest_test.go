package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/piwi3910/WallCut/internal/model"
)

func TestNewManifest(t *testing.T) {
	m := NewManifest("plan.wallcut.json", "/tmp/plan.wallcut.json", false, model.DefaultSettings())

	if len(m.ID) != 8 {
		t.Errorf("ID length = %d, want 8", len(m.ID))
	}
	if m.StartedAt.IsZero() {
		t.Error("StartedAt should be stamped at creation")
	}
	if m.DocName != "plan.wallcut.json" {
		t.Errorf("DocName = %q", m.DocName)
	}
	if !m.FinishedAt.IsZero() {
		t.Error("FinishedAt should stay zero until Finish")
	}
}

func TestManifestFinish(t *testing.T) {
	m := NewManifest("plan.wallcut.json", "", true, model.DefaultSettings())
	m.Finish(runOutcomes())

	if m.FinishedAt.Before(m.StartedAt) {
		t.Error("FinishedAt precedes StartedAt")
	}
	if len(m.Outcomes) != 4 {
		t.Errorf("Outcomes = %d, want 4", len(m.Outcomes))
	}
	if m.Metrics.TotalFaces != 4 || m.Metrics.Successes != 2 {
		t.Errorf("Metrics = %+v, want 4 faces / 2 successes", m.Metrics)
	}
}

func TestSaveLoadManifest(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest("plan.wallcut.json", "/tmp/plan.wallcut.json", false, model.DefaultSettings())
	m.Finish(runOutcomes())

	path, err := SaveManifest(dir, m)
	if err != nil {
		t.Fatalf("SaveManifest failed: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "run-") || !strings.HasSuffix(base, ".json") {
		t.Errorf("manifest file name = %q", base)
	}
	if !strings.Contains(base, m.ID) {
		t.Errorf("manifest file name %q missing run ID %q", base, m.ID)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if loaded.ID != m.ID || loaded.DocName != m.DocName {
		t.Errorf("round trip lost identity: %+v", loaded)
	}
	if len(loaded.Outcomes) != 4 {
		t.Errorf("Outcomes = %d, want 4", len(loaded.Outcomes))
	}
	if loaded.Metrics.Successes != 2 {
		t.Errorf("Metrics.Successes = %d, want 2", loaded.Metrics.Successes)
	}
	if loaded.Settings.HeightPolicy != model.HeightPolicyClearance {
		t.Errorf("Settings.HeightPolicy = %q", loaded.Settings.HeightPolicy)
	}
	if loaded.Outcomes[2].Failure == nil || loaded.Outcomes[2].Failure.Kind != model.FailureRoomNotFound {
		t.Errorf("failure record lost in round trip: %+v", loaded.Outcomes[2])
	}
}

func TestLoadManifest_UnfinishedRunHasEmptyOutcomes(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest("plan.wallcut.json", "", false, model.DefaultSettings())

	path, err := SaveManifest(dir, m)
	if err != nil {
		t.Fatalf("SaveManifest failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if loaded.Outcomes == nil {
		t.Error("Outcomes should never be nil after load")
	}
	if len(loaded.Outcomes) != 0 {
		t.Errorf("Outcomes = %d, want 0", len(loaded.Outcomes))
	}
}

func TestLoadManifest_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for invalid manifest JSON")
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		m := NewManifest("plan.wallcut.json", "", false, model.DefaultSettings())
		m.StartedAt = base.Add(time.Duration(i) * time.Hour)
		m.Finish(nil)
		if _, err := SaveManifest(dir, m); err != nil {
			t.Fatalf("SaveManifest failed: %v", err)
		}
	}

	runs, err := ListRuns(dir)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].StartedAt.After(runs[i-1].StartedAt) {
			t.Errorf("runs not sorted newest first: %v before %v",
				runs[i-1].StartedAt, runs[i].StartedAt)
		}
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("newest run StartedAt = %v", runs[0].StartedAt)
	}
}

func TestListRuns_MissingDir(t *testing.T) {
	runs, err := ListRuns(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing directory should not error, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty history, got %d runs", len(runs))
	}
}

func TestListRuns_SkipsCorruptAndForeignFiles(t *testing.T) {
	dir := t.TempDir()

	m := NewManifest("plan.wallcut.json", "", false, model.DefaultSettings())
	m.Finish(runOutcomes())
	if _, err := SaveManifest(dir, m); err != nil {
		t.Fatalf("SaveManifest failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "run-broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a manifest"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := ListRuns(dir)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 readable run, got %d", len(runs))
	}
	if runs[0].ID != m.ID {
		t.Errorf("loaded run ID = %q, want %q", runs[0].ID, m.ID)
	}
}
