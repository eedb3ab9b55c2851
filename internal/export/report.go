// Package export renders run artifacts: the PDF run report, QR label
// sheets, the outcome workbook, and DXF profile drawings.
package export

import (
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/WallCut/internal/engine"
	"github.com/piwi3910/WallCut/internal/host"
	"github.com/piwi3910/WallCut/internal/model"
)

// defaultProfileTolerance stands in when a report carries no working
// tolerance, in ft.
const defaultProfileTolerance = 0.01

// RunReport bundles everything the exporters render: the outcome list with
// its aggregate metrics, the settings the run used, and the face snapshots
// captured before mutation so drawings show the original outlines.
type RunReport struct {
	DocName   string
	Timestamp time.Time
	Settings  model.Settings
	Tolerance float64 // working curve tolerance of the run, ft
	Outcomes  []model.Outcome
	Metrics   model.RunMetrics
	Slivers   []model.SliverWarning
	Faces     map[string]model.Face // face ID -> pre-run snapshot
}

// NewRunReport aggregates a run's outcomes into a report. Attach face
// snapshots captured with SnapshotFaces before the run to enable the
// elevation pages and the DXF export.
func NewRunReport(docName string, settings model.Settings, tolerance float64, outcomes []model.Outcome) RunReport {
	return RunReport{
		DocName:   docName,
		Timestamp: time.Now(),
		Settings:  settings,
		Tolerance: tolerance,
		Outcomes:  outcomes,
		Metrics:   model.ComputeMetrics(outcomes),
		Slivers:   model.DetectSlivers(outcomes, 0),
	}
}

// SnapshotFaces collects every wall face keyed by face ID. Capture the
// snapshot before the pipeline runs; a committed run replaces the split
// faces with their lower and upper bands.
func SnapshotFaces(doc host.Document) map[string]model.Face {
	faces := make(map[string]model.Face)
	for _, wall := range doc.Walls() {
		wallFaces, err := doc.FaceGeometry(wall, host.GeometryOptions{ComputeReferences: true})
		if err != nil {
			continue
		}
		for _, f := range wallFaces {
			faces[f.ID] = f
		}
	}
	return faces
}

// profileFor rebuilds the cutting profile a successful outcome applied,
// from its face snapshot and recorded height. The builder is
// deterministic, so the rebuilt loop matches the applied one.
func (r RunReport) profileFor(out model.Outcome) (model.Face, model.Profile, bool) {
	if !out.Succeeded() || out.Height <= 0 {
		return model.Face{}, model.Profile{}, false
	}
	face, ok := r.Faces[out.FaceID]
	if !ok {
		return model.Face{}, model.Profile{}, false
	}

	tol := r.Tolerance
	if tol <= 0 {
		tol = defaultProfileTolerance
	}
	builder := engine.ProfileBuilder{Tolerance: tol, Log: zap.NewNop()}
	profile, err := builder.Build(face, out.Height)
	if err != nil {
		return model.Face{}, model.Profile{}, false
	}
	return face, profile, true
}
