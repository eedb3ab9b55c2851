// Package memdoc provides a file-backed in-memory implementation of the
// host contracts. The CLI runs the split pipeline against it, and tests
// use it as a realistic stand-in for a modeling kernel.
package memdoc

import (
	"fmt"
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"github.com/piwi3910/WallCut/internal/host"
	"github.com/piwi3910/WallCut/internal/model"
)

var (
	_ host.Document    = (*Document)(nil)
	_ host.Application = (*Document)(nil)
)

// Document holds walls, faces and rooms loaded from a document file.
// Reads are safe for concurrent use; mutations require an edit session
// and only one session can be open at a time.
type Document struct {
	mu       sync.RWMutex
	name     string
	phase    string
	minCurve float64
	walls    []model.Wall
	faces    map[string][]model.Face // wall ID -> faces in geometry order
	rooms    []*roomRegion
	index    *rtreego.Rtree
	session  *editSession
	path     string
}

// roomRegion pairs a room with its plan footprint and vertical span. The
// r-tree stores its bounding box; contains runs the exact test.
type roomRegion struct {
	room      model.Room
	footprint model.Footprint
	bottom    float64
	top       float64
	bounds    rtreego.Rect
}

func (r *roomRegion) Bounds() rtreego.Rect {
	return r.bounds
}

func (r *roomRegion) contains(p model.Point3, phase string) bool {
	if phase != "" && r.room.Phase != "" && r.room.Phase != phase {
		return false
	}
	if p.Z < r.bottom || p.Z > r.top {
		return false
	}
	return r.footprint.Contains(p.X, p.Y)
}

func newRoomRegion(room model.Room, footprint model.Footprint) (*roomRegion, error) {
	if len(footprint) < 3 {
		return nil, fmt.Errorf("footprint has %d points, need at least 3", len(footprint))
	}
	bottom, top := room.VerticalRange()
	if room.UnboundedHeight > 0 && bottom+room.UnboundedHeight > top {
		top = bottom + room.UnboundedHeight
	}
	if top <= bottom {
		return nil, fmt.Errorf("room has no vertical extent (%.4f to %.4f)", bottom, top)
	}
	min, max := footprint.BoundingBox()
	if max.X <= min.X || max.Y <= min.Y {
		return nil, fmt.Errorf("footprint has no area")
	}
	bounds, err := rtreego.NewRect(
		rtreego.Point{min.X, min.Y, bottom},
		[]float64{max.X - min.X, max.Y - min.Y, top - bottom},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to index footprint: %w", err)
	}
	return &roomRegion{
		room:      room,
		footprint: footprint,
		bottom:    bottom,
		top:       top,
		bounds:    bounds,
	}, nil
}

// New builds a document from a parsed file. Rooms are indexed in an
// r-tree so containment probes stay cheap on large documents.
func New(f File) (*Document, error) {
	if f.Version > FileVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", f.Version, FileVersion)
	}
	minCurve := f.MinCurveLength
	if minCurve <= 0 {
		minCurve = DefaultMinCurveLength
	}

	doc := &Document{
		name:     f.Name,
		phase:    f.Phase,
		minCurve: minCurve,
		faces:    make(map[string][]model.Face, len(f.Walls)),
		index:    rtreego.NewTree(3, 2, 8),
	}

	for _, entry := range f.Walls {
		if entry.ID == "" {
			return nil, fmt.Errorf("wall %q has no id", entry.Name)
		}
		if _, dup := doc.faces[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate wall id %s", entry.ID)
		}
		faces := make([]model.Face, len(entry.Faces))
		copy(faces, entry.Faces)
		for i := range faces {
			if faces[i].WallID == "" {
				faces[i].WallID = entry.ID
			}
		}
		doc.walls = append(doc.walls, entry.Wall)
		doc.faces[entry.ID] = faces
	}

	for _, entry := range f.Rooms {
		region, err := newRoomRegion(entry.Room, entry.Footprint)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", entry.ID, err)
		}
		doc.rooms = append(doc.rooms, region)
		doc.index.Insert(region)
	}

	return doc, nil
}

// Name returns the document's display name.
func (d *Document) Name() string {
	return d.name
}

// Phase returns the document's default phase.
func (d *Document) Phase() string {
	return d.phase
}

// Path returns the file the document was loaded from, or "" for built
// documents.
func (d *Document) Path() string {
	return d.path
}

// MinimumCurveLength implements host.Application: the shortest curve the
// document accepts in a boundary loop.
func (d *Document) MinimumCurveLength() float64 {
	return d.minCurve
}

func (d *Document) Walls() []model.Wall {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Wall, len(d.walls))
	copy(out, d.walls)
	return out
}

func (d *Document) FaceGeometry(wall model.Wall, _ host.GeometryOptions) ([]model.Face, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	faces, ok := d.faces[wall.ID]
	if !ok {
		return nil, fmt.Errorf("wall %s has no geometry", wall.ID)
	}
	out := make([]model.Face, len(faces))
	copy(out, faces)
	return out, nil
}

// pointProbe is the side length of the degenerate box used for point
// queries; the r-tree requires positive extents.
const pointProbe = 1e-9

func (d *Document) RoomAtPoint(p model.Point3, phase string) (model.Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	probe, err := rtreego.NewRect(
		rtreego.Point{p.X - pointProbe/2, p.Y - pointProbe/2, p.Z - pointProbe/2},
		[]float64{pointProbe, pointProbe, pointProbe},
	)
	if err != nil {
		return model.Room{}, false
	}
	for _, hit := range d.index.SearchIntersect(probe) {
		region := hit.(*roomRegion)
		if region.contains(p, phase) {
			return region.room, true
		}
	}
	return model.Room{}, false
}

// BeginEdit opens the document's single edit slot. The returned session
// snapshots face state so Rollback can restore it.
func (d *Document) BeginEdit(name string) (host.EditSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		return nil, fmt.Errorf("edit session %q is already open", d.session.name)
	}

	saved := make(map[string][]model.Face, len(d.faces))
	for id, faces := range d.faces {
		cp := make([]model.Face, len(faces))
		copy(cp, faces)
		saved[id] = cp
	}

	s := &editSession{doc: d, name: name, saved: saved}
	d.session = s
	return s, nil
}

// SplitFace cuts the profile region out of a face. The profile becomes a
// new face and the original shrinks to the band above the cut. Inner
// loops stay with the original face.
func (d *Document) SplitFace(face model.Face, profile model.Profile) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return "", fmt.Errorf("no open edit session")
	}

	faces, ok := d.faces[face.WallID]
	if !ok {
		return "", fmt.Errorf("wall %s has no geometry", face.WallID)
	}
	idx := -1
	for i := range faces {
		if faces[i].ID == face.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("face %s not found on wall %s", face.ID, face.WallID)
	}
	stored := faces[idx]

	// Chains assembled over dropped sliver curves carry gaps up to the
	// builder tolerance, so validation allows twice the curve minimum.
	tol := d.minCurve * 2
	if err := validateProfile(stored, profile, tol); err != nil {
		return "", fmt.Errorf("face %s: %w", face.ID, err)
	}

	_, fMax := stored.ZRange()
	pMin, pMax := profile.Loop.ZRange()

	base := baseChain(profile.Loop, pMin, tol)
	if len(base) == 0 {
		return "", fmt.Errorf("face %s: profile has no base chain", face.ID)
	}

	newFace := model.Face{
		ID:     uuid.New().String()[:8],
		WallID: stored.WallID,
		Normal: stored.Normal,
		Loops:  []model.BoundaryLoop{profile.Loop},
	}

	remainder := band(base, pMax-pMin, fMax-pMax)
	stored.Loops = append([]model.BoundaryLoop{remainder}, stored.Loops[1:]...)
	faces[idx] = stored
	d.faces[face.WallID] = append(faces, newFace)

	return newFace.ID, nil
}

// validateProfile enforces what a modeling kernel would: the loop must
// be closed and planar, sit on the face base, and leave a non-empty band
// above the cut.
func validateProfile(face model.Face, profile model.Profile, tol float64) error {
	loop := profile.Loop
	if len(loop) == 0 {
		return fmt.Errorf("profile has no curves")
	}
	if !loop.IsClosed(tol) {
		return fmt.Errorf("profile loop is not closed")
	}
	if !loop.IsPlanar(face.Normal, tol) {
		return fmt.Errorf("profile loop is not planar")
	}
	fMin, fMax := face.ZRange()
	pMin, pMax := loop.ZRange()
	if math.Abs(pMin-fMin) > tol {
		return fmt.Errorf("profile base %.4f does not sit on the face base %.4f", pMin, fMin)
	}
	if pMax <= fMin+tol || pMax >= fMax-tol {
		return fmt.Errorf("profile top %.4f does not divide the face between %.4f and %.4f", pMax, fMin, fMax)
	}
	return nil
}

// baseChain extracts the profile's curves at its lowest elevation, in
// loop order.
func baseChain(loop model.BoundaryLoop, minZ, tol float64) model.BoundaryLoop {
	var chain model.BoundaryLoop
	for _, c := range loop {
		if math.Abs(c.Start.Z-minZ) <= tol && math.Abs(c.End.Z-minZ) <= tol {
			chain = append(chain, c)
		}
	}
	return chain
}

// band extrudes a chain into a closed vertical band: the chain lifted to
// the given elevation, its copy at elevation+height, and connectors at
// both ends.
func band(chain model.BoundaryLoop, lift, height float64) model.BoundaryLoop {
	bottom := chain.Translated(model.Point3{Z: lift})
	top := bottom.Translated(model.Point3{Z: height})

	loop := make(model.BoundaryLoop, 0, 2*len(bottom)+2)
	loop = append(loop, bottom...)
	loop = append(loop, model.Curve{Start: bottom[len(bottom)-1].End, End: top[len(top)-1].End})
	for i := len(top) - 1; i >= 0; i-- {
		loop = append(loop, top[i].Reversed())
	}
	loop = append(loop, model.Curve{Start: top[0].Start, End: bottom[0].Start})
	return loop
}

// editSession is the exclusive mutation handle for a document. Rollback
// after Commit is a no-op, so callers can defer it unconditionally.
type editSession struct {
	doc   *Document
	name  string
	saved map[string][]model.Face
	done  bool
}

func (s *editSession) Commit() error {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	if s.done {
		return fmt.Errorf("edit session %q is already closed", s.name)
	}
	s.done = true
	s.saved = nil
	s.doc.session = nil
	return nil
}

func (s *editSession) Rollback() error {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	s.doc.faces = s.saved
	s.saved = nil
	s.doc.session = nil
	return nil
}
