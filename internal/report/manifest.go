package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/WallCut/internal/model"
)

// RunManifest is the durable JSON record of one pipeline run.
type RunManifest struct {
	ID         string           `json:"id"`
	DocName    string           `json:"doc_name"`
	DocPath    string           `json:"doc_path,omitempty"`
	DryRun     bool             `json:"dry_run,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Settings   model.Settings   `json:"settings"`
	Outcomes   []model.Outcome  `json:"outcomes"`
	Metrics    model.RunMetrics `json:"metrics"`
}

// NewManifest opens a manifest for a run starting now.
func NewManifest(docName, docPath string, dryRun bool, settings model.Settings) *RunManifest {
	return &RunManifest{
		ID:        uuid.New().String()[:8],
		DocName:   docName,
		DocPath:   docPath,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
		Settings:  settings,
	}
}

// Finish records the outcomes and closes the run clock.
func (m *RunManifest) Finish(outcomes []model.Outcome) {
	m.FinishedAt = time.Now().UTC()
	m.Outcomes = outcomes
	m.Metrics = model.ComputeMetrics(outcomes)
}

// Filename returns the manifest's file name under a runs directory. The
// timestamp prefix keeps a lexical sort chronological.
func (m *RunManifest) Filename() string {
	return fmt.Sprintf("run-%s-%s.json", m.StartedAt.Format("20060102-150405"), m.ID)
}

// SaveManifest writes the manifest under dir, creating the directory if
// needed, and returns the file path.
func SaveManifest(dir string, m *RunManifest) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, m.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadManifest reads a single manifest file.
func LoadManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse run manifest %s: %w", filepath.Base(path), err)
	}
	if m.Outcomes == nil {
		m.Outcomes = []model.Outcome{}
	}
	return &m, nil
}

// ListRuns loads every manifest under dir, newest first. A missing
// directory is an empty history, not an error. Unreadable files are
// skipped so one corrupt manifest cannot hide the rest.
func ListRuns(dir string) ([]*RunManifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []*RunManifest
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		m, err := LoadManifest(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, m)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}
