package project

import (
	"path/filepath"

	"github.com/piwi3910/WallCut/internal/report"
)

// DefaultRunsDir returns the directory run manifests are stored in.
// This is located at ~/.wallcut/runs.
func DefaultRunsDir() string {
	return filepath.Join(DefaultConfigDir(), "runs")
}

// SaveRun writes a run manifest under dir and returns the file path.
func SaveRun(dir string, m *report.RunManifest) (string, error) {
	return report.SaveManifest(dir, m)
}

// SaveRunToDefault writes a run manifest to the default runs directory.
func SaveRunToDefault(m *report.RunManifest) (string, error) {
	return SaveRun(DefaultRunsDir(), m)
}

// RecentRuns loads up to limit manifests from dir, newest first.
// limit <= 0 means no cap. A missing directory yields an empty history.
func RecentRuns(dir string, limit int) ([]*report.RunManifest, error) {
	runs, err := report.ListRuns(dir)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// RecentRunsFromDefault loads recent runs from the default runs directory.
func RecentRunsFromDefault(limit int) ([]*report.RunManifest, error) {
	return RecentRuns(DefaultRunsDir(), limit)
}
