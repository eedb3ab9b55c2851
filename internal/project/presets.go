package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/WallCut/internal/model"
)

// DefaultPresetsPath returns the default file path for custom split presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets saves custom split presets to a JSON file.
func SaveCustomPresets(path string, presets []model.SplitPreset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomPresets loads custom split presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]model.SplitPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.SplitPreset{}, nil
		}
		return nil, err
	}

	var presets []model.SplitPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Ensure loaded presets are not marked as built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// SaveCustomPresetsToDefault saves custom presets to the default path.
func SaveCustomPresetsToDefault(presets []model.SplitPreset) error {
	return SaveCustomPresets(DefaultPresetsPath(), presets)
}

// LoadCustomPresetsFromDefault loads custom presets from the default path.
func LoadCustomPresetsFromDefault() ([]model.SplitPreset, error) {
	return LoadCustomPresets(DefaultPresetsPath())
}

// ExportPreset exports a single preset to a JSON file (for sharing).
func ExportPreset(path string, preset model.SplitPreset) error {
	preset.IsBuiltIn = false
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportPreset imports a single preset from a JSON file.
func ImportPreset(path string) (model.SplitPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SplitPreset{}, err
	}

	var preset model.SplitPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return model.SplitPreset{}, err
	}

	preset.IsBuiltIn = false
	if preset.Name == "" {
		return model.SplitPreset{}, errors.New("imported preset has no name")
	}
	return preset, nil
}
