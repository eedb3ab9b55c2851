// Package host declares the contracts the split pipeline consumes from the
// building-model authoring environment. The pipeline only produces heights
// and profiles; enumerating elements, spatial queries, and the split
// mutation itself belong to a Document implementation.
package host

import "github.com/piwi3910/WallCut/internal/model"

// GeometryOptions controls face extraction from a wall's solid geometry.
type GeometryOptions struct {
	ComputeReferences bool // Resolve stable references for later mutation
	IncludeNonVisible bool // Include geometry hidden in the active view
}

// Document is one open building model. Read methods are safe to call
// concurrently; SplitFace mutates shared state and must only run inside the
// single edit session of a run.
type Document interface {
	// Walls enumerates the wall elements of the document.
	Walls() []model.Wall

	// FaceGeometry extracts the planar face snapshots of one wall's solid
	// geometry. A degenerate wall yields an empty slice; an extraction
	// error affects only that wall.
	FaceGeometry(wall model.Wall, opts GeometryOptions) ([]model.Face, error)

	// RoomAtPoint answers the spatial containment query: which room, if
	// any, contains p. An empty phase matches rooms in any phase.
	RoomAtPoint(p model.Point3, phase string) (model.Room, bool)

	// SplitFace cuts the face along the profile and returns the ID of the
	// newly created face. Requires an active edit session.
	SplitFace(face model.Face, profile model.Profile) (string, error)

	// BeginEdit opens the document's exclusive edit scope. At most one
	// session is active at a time; the caller must Commit or Rollback it.
	BeginEdit(name string) (EditSession, error)
}

// EditSession is an open exclusive edit scope over a Document.
type EditSession interface {
	// Commit keeps every mutation performed during the session.
	Commit() error
	// Rollback discards every mutation performed during the session.
	// Safe to call after Commit; it then does nothing.
	Rollback() error
}

// Application exposes the hosting geometry kernel's limits.
type Application interface {
	// MinimumCurveLength is the shortest curve the kernel can represent.
	// The profile builder scales it into its working tolerance.
	MinimumCurveLength() float64
}
