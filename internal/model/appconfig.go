package model

// AppConfig holds application-wide preferences and default settings.
// Fields carry envconfig tags so WALLCUT_* environment variables can
// override the saved file (flags still win over both).
type AppConfig struct {
	// Default pipeline settings applied to new runs
	DefaultHeightPolicy   string    `json:"default_height_policy" envconfig:"HEIGHT_POLICY"`
	DefaultUnitFactor     float64   `json:"default_unit_factor" envconfig:"UNIT_FACTOR"`
	DefaultNormalTol      float64   `json:"default_normal_tolerance" envconfig:"NORMAL_TOLERANCE"`
	DefaultOffsetSequence []float64 `json:"default_offset_sequence" envconfig:"OFFSET_SEQUENCE"`
	DefaultCurveMult      float64   `json:"default_curve_multiplier" envconfig:"CURVE_MULTIPLIER"`
	DefaultWorkers        int       `json:"default_workers" envconfig:"WORKERS"`
	DefaultPhase          string    `json:"default_phase" envconfig:"PHASE"`

	// Application preferences
	ExportDir       string   `json:"export_dir" envconfig:"EXPORT_DIR"` // Where run artifacts land; empty = next to the document
	RecentDocuments []string `json:"recent_documents" ignored:"true"`
	Verbose         bool     `json:"verbose" envconfig:"VERBOSE"`
}

// maxRecentDocuments caps the recent-documents list.
const maxRecentDocuments = 10

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultHeightPolicy:   string(defaults.HeightPolicy),
		DefaultUnitFactor:     defaults.UnitConversionFactor,
		DefaultNormalTol:      defaults.NormalAngleTolerance,
		DefaultOffsetSequence: defaults.OffsetSequence,
		DefaultCurveMult:      defaults.CurveToleranceMultiplier,
		DefaultWorkers:        defaults.Workers,
		DefaultPhase:          defaults.Phase,
		ExportDir:             "",
		RecentDocuments:       []string{},
		Verbose:               false,
	}
}

// ApplyToSettings copies the configured defaults into a Settings struct.
// Used when starting a run so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultHeightPolicy != "" {
		s.HeightPolicy = HeightPolicy(c.DefaultHeightPolicy)
	}
	if c.DefaultUnitFactor > 0 {
		s.UnitConversionFactor = c.DefaultUnitFactor
	}
	if c.DefaultNormalTol > 0 {
		s.NormalAngleTolerance = c.DefaultNormalTol
	}
	if len(c.DefaultOffsetSequence) > 0 {
		s.OffsetSequence = c.DefaultOffsetSequence
	}
	if c.DefaultCurveMult > 0 {
		s.CurveToleranceMultiplier = c.DefaultCurveMult
	}
	if c.DefaultWorkers > 0 {
		s.Workers = c.DefaultWorkers
	}
	if c.DefaultPhase != "" {
		s.Phase = c.DefaultPhase
	}
}

// AddRecentDocument puts path at the front of the recent list, removing
// duplicates and trimming to the cap.
func (c *AppConfig) AddRecentDocument(path string) {
	recent := []string{path}
	for _, p := range c.RecentDocuments {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentDocuments {
		recent = recent[:maxRecentDocuments]
	}
	c.RecentDocuments = recent
}
