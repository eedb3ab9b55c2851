package model

import (
	"testing"
)

func TestAllPresetsIncludesBuiltInAndCustom(t *testing.T) {
	// Reset custom presets
	CustomPresets = nil

	builtInCount := len(BuiltInPresets)
	all := AllPresets()
	if len(all) != builtInCount {
		t.Errorf("expected %d presets with no custom, got %d", builtInCount, len(all))
	}

	// Add a custom preset
	CustomPresets = []SplitPreset{
		{Name: "Custom1", Description: "Test custom"},
	}
	defer func() { CustomPresets = nil }()

	all = AllPresets()
	if len(all) != builtInCount+1 {
		t.Errorf("expected %d presets with 1 custom, got %d", builtInCount+1, len(all))
	}
}

func TestGetPresetFindsCustom(t *testing.T) {
	CustomPresets = []SplitPreset{
		{Name: "MyCustom", Description: "Custom preset", Settings: DefaultSettings()},
	}
	defer func() { CustomPresets = nil }()

	p := GetPreset("MyCustom")
	if p.Name != "MyCustom" {
		t.Errorf("expected MyCustom, got %s", p.Name)
	}
}

func TestGetPresetFallsBackToDefault(t *testing.T) {
	p := GetPreset("NonExistent")
	if p.Name != "Default" {
		t.Errorf("expected Default fallback, got %s", p.Name)
	}
	if p.Settings.HeightPolicy != HeightPolicyClearance {
		t.Errorf("fallback preset should carry default settings, got policy %s", p.Settings.HeightPolicy)
	}
}

func TestGetPresetNamesIncludesCustom(t *testing.T) {
	CustomPresets = []SplitPreset{
		{Name: "CustomA"},
		{Name: "CustomB"},
	}
	defer func() { CustomPresets = nil }()

	names := GetPresetNames()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}

	if !found["Metric clearance"] {
		t.Error("missing built-in preset Metric clearance")
	}
	if !found["CustomA"] {
		t.Error("missing custom preset CustomA")
	}
	if !found["CustomB"] {
		t.Error("missing custom preset CustomB")
	}
}

func TestAddCustomPreset(t *testing.T) {
	CustomPresets = nil
	defer func() { CustomPresets = nil }()

	p := SplitPreset{Name: "NewPreset", Description: "New"}
	if err := AddCustomPreset(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(CustomPresets) != 1 {
		t.Fatalf("expected 1 custom preset, got %d", len(CustomPresets))
	}
	if CustomPresets[0].Name != "NewPreset" {
		t.Errorf("expected NewPreset, got %s", CustomPresets[0].Name)
	}
	if CustomPresets[0].ID == "" {
		t.Error("custom preset should get a generated ID")
	}
}

func TestAddCustomPresetRejectsBuiltInName(t *testing.T) {
	CustomPresets = nil
	defer func() { CustomPresets = nil }()

	p := SplitPreset{Name: "Room bounds", Description: "Conflict"}
	if err := AddCustomPreset(p); err == nil {
		t.Fatal("expected error when adding preset with built-in name")
	}
}

func TestAddCustomPresetUpdatesExisting(t *testing.T) {
	CustomPresets = nil
	defer func() { CustomPresets = nil }()

	p1 := SplitPreset{Name: "MyPreset", Description: "Version 1"}
	_ = AddCustomPreset(p1)

	p2 := SplitPreset{Name: "MyPreset", Description: "Version 2"}
	_ = AddCustomPreset(p2)

	if len(CustomPresets) != 1 {
		t.Fatalf("expected 1 custom preset after update, got %d", len(CustomPresets))
	}
	if CustomPresets[0].Description != "Version 2" {
		t.Errorf("expected updated description, got %s", CustomPresets[0].Description)
	}
}

func TestRemoveCustomPreset(t *testing.T) {
	CustomPresets = []SplitPreset{
		{Name: "ToRemove", Description: "Remove me"},
	}
	defer func() { CustomPresets = nil }()

	if !RemoveCustomPreset("ToRemove") {
		t.Fatal("expected RemoveCustomPreset to find the preset")
	}
	if len(CustomPresets) != 0 {
		t.Errorf("expected empty custom presets, got %d", len(CustomPresets))
	}
	if RemoveCustomPreset("ToRemove") {
		t.Error("removing a missing preset should return false")
	}
}

func TestBuiltInPresetSettingsValidate(t *testing.T) {
	for _, p := range BuiltInPresets {
		if err := p.Settings.Validate(); err != nil {
			t.Errorf("built-in preset %q has invalid settings: %v", p.Name, err)
		}
	}
}
