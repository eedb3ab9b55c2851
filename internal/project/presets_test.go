package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/WallCut/internal/model"
)

func customPreset(name string) model.SplitPreset {
	s := model.DefaultSettings()
	s.OffsetSequence = []float64{0.05, 0.25, 1.5}
	return model.SplitPreset{
		ID:          "abcd1234",
		Name:        name,
		Description: "Site-specific probe offsets",
		Settings:    s,
	}
}

func TestSaveAndLoadCustomPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.json")

	presets := []model.SplitPreset{customPreset("Tower A"), customPreset("Tower B")}
	if err := SaveCustomPresets(path, presets); err != nil {
		t.Fatalf("SaveCustomPresets failed: %v", err)
	}

	loaded, err := LoadCustomPresets(path)
	if err != nil {
		t.Fatalf("LoadCustomPresets failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded))
	}
	if loaded[0].Name != "Tower A" {
		t.Errorf("expected 'Tower A', got %q", loaded[0].Name)
	}
	if got := loaded[0].Settings.OffsetSequence; len(got) != 3 || got[2] != 1.5 {
		t.Errorf("expected offset sequence [0.05 0.25 1.5], got %v", got)
	}
}

func TestLoadCustomPresetsMissingFile(t *testing.T) {
	loaded, err := LoadCustomPresets(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty slice, got %d presets", len(loaded))
	}
}

func TestLoadCustomPresetsClearsBuiltInFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.json")

	p := customPreset("Sneaky")
	p.IsBuiltIn = true
	if err := SaveCustomPresets(path, []model.SplitPreset{p}); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadCustomPresets(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded[0].IsBuiltIn {
		t.Error("loaded custom preset should never be marked built-in")
	}
}

func TestExportAndImportPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.json")

	if err := ExportPreset(path, customPreset("Shared")); err != nil {
		t.Fatalf("ExportPreset failed: %v", err)
	}

	imported, err := ImportPreset(path)
	if err != nil {
		t.Fatalf("ImportPreset failed: %v", err)
	}
	if imported.Name != "Shared" {
		t.Errorf("expected 'Shared', got %q", imported.Name)
	}
	if imported.IsBuiltIn {
		t.Error("imported preset should not be built-in")
	}
}

func TestImportPresetNoName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anon.json")
	if err := os.WriteFile(path, []byte(`{"description":"nameless"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportPreset(path)
	if err == nil {
		t.Fatal("expected error for preset without a name")
	}
}
