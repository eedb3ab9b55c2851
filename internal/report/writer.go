// Package report persists run results outside the document: the two
// plain-text site logs and the JSON run manifests kept per run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/piwi3910/WallCut/internal/model"
)

// File names used by WriteRunLogs.
const (
	SuccessLogName = "applied_splits.log"
	FailureLogName = "skipped_faces.log"
)

var logDivider = strings.Repeat("-", 60)

// Writer renders a run's outcomes into the two site logs: one listing every
// applied split, one listing every skipped face with its failure.
type Writer struct {
	DocName   string
	Settings  model.Settings
	Timestamp time.Time
}

// NewWriter creates a Writer stamped with the current time.
func NewWriter(docName string, settings model.Settings) *Writer {
	return &Writer{DocName: docName, Settings: settings, Timestamp: time.Now()}
}

// SuccessLog renders one line per applied split plus a totals footer.
func (w *Writer) SuccessLog(outcomes []model.Outcome) string {
	var b strings.Builder
	w.writeHeader(&b, "Applied Splits")

	n := 0
	for _, o := range outcomes {
		if !o.Succeeded() {
			continue
		}
		n++
		b.WriteString(fmt.Sprintf("wall %q face %s: split at %s",
			wallLabel(o), faceLabel(o), model.FormatFeetInches(o.Height)))
		if o.RoomName != "" {
			b.WriteString(fmt.Sprintf(" for room %q", o.RoomName))
		}
		if o.NewFaceID != "" {
			b.WriteString(fmt.Sprintf(", new face %s", o.NewFaceID))
		}
		b.WriteByte('\n')
	}
	if n == 0 {
		b.WriteString("No faces were split.\n")
	}

	m := model.ComputeMetrics(outcomes)
	b.WriteString(logDivider + "\n")
	b.WriteString(fmt.Sprintf("%d of %d faces split", m.Successes, m.TotalFaces))
	if m.Successes > 0 {
		b.WriteString(fmt.Sprintf(", total height %s", model.FormatFeet(m.TotalHeight)))
	}
	b.WriteByte('\n')
	return b.String()
}

// FailureLog renders one line per skipped face plus a per-kind tally.
func (w *Writer) FailureLog(outcomes []model.Outcome) string {
	var b strings.Builder
	w.writeHeader(&b, "Skipped Faces")

	n := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			continue
		}
		n++
		b.WriteString(fmt.Sprintf("wall %q face %s: ", wallLabel(o), faceLabel(o)))
		if o.Failure != nil {
			b.WriteString(o.Failure.Error())
		} else {
			b.WriteString("unknown failure")
		}
		b.WriteByte('\n')
	}
	if n == 0 {
		b.WriteString("No faces were skipped.\n")
	}

	m := model.ComputeMetrics(outcomes)
	b.WriteString(logDivider + "\n")
	kinds := make([]string, 0, len(m.ByKind))
	for k := range m.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		b.WriteString(fmt.Sprintf("%-24s %d\n", k, m.ByKind[model.FailureKind(k)]))
	}
	b.WriteString(fmt.Sprintf("%d faces skipped\n", m.Failures))
	return b.String()
}

// WriteRunLogs writes both logs under dir, creating it if needed, and
// returns the success and failure log paths.
func (w *Writer) WriteRunLogs(dir string, outcomes []model.Outcome) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create log directory: %w", err)
	}
	successPath := filepath.Join(dir, SuccessLogName)
	if err := os.WriteFile(successPath, []byte(w.SuccessLog(outcomes)), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write success log: %w", err)
	}
	failurePath := filepath.Join(dir, FailureLogName)
	if err := os.WriteFile(failurePath, []byte(w.FailureLog(outcomes)), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write failure log: %w", err)
	}
	return successPath, failurePath, nil
}

func (w *Writer) writeHeader(b *strings.Builder, title string) {
	ts := w.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString("WallCut Run Log - " + title + "\n")
	b.WriteString(fmt.Sprintf("Document:  %s\n", w.DocName))
	b.WriteString(fmt.Sprintf("Generated: %s\n", ts.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Policy:    %s\n", w.Settings.HeightPolicy))
	if w.Settings.Phase != "" {
		b.WriteString(fmt.Sprintf("Phase:     %s\n", w.Settings.Phase))
	}
	b.WriteString(logDivider + "\n")
}

func wallLabel(o model.Outcome) string {
	if o.WallName != "" {
		return o.WallName
	}
	return o.WallID
}

func faceLabel(o model.Outcome) string {
	if o.FaceID == "" {
		return "-"
	}
	return o.FaceID
}
