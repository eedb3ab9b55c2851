package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point2D represents a plan-view coordinate in ft.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Footprint represents a closed plan-view polygon as a sequence of 2D points.
// The polygon is implicitly closed: the last point connects back to the first.
type Footprint []Point2D

// BoundingBox returns the min and max corners of the footprint.
func (f Footprint) BoundingBox() (min, max Point2D) {
	if len(f) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: f[0].X, Y: f[0].Y}
	max = Point2D{X: f[0].X, Y: f[0].Y}
	for _, p := range f[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// SignedArea returns the shoelace area of the footprint. Positive means
// counter-clockwise winding.
func (f Footprint) SignedArea() float64 {
	if len(f) < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < len(f); i++ {
		j := (i + 1) % len(f)
		sum += f[i].X*f[j].Y - f[j].X*f[i].Y
	}
	return sum / 2
}

// Contains reports whether the point lies inside the polygon, using the
// even-odd ray casting rule. Points exactly on an edge are not guaranteed
// either way; callers probe at offsets rather than on boundaries.
func (f Footprint) Contains(x, y float64) bool {
	if len(f) < 3 {
		return false
	}
	inside := false
	j := len(f) - 1
	for i := 0; i < len(f); i++ {
		if (f[i].Y > y) != (f[j].Y > y) {
			crossX := f[j].X + (y-f[i].Y)/(f[j].Y-f[i].Y)*(f[j].X-f[i].X)
			if x < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Point3 represents a 3D model coordinate in decimal ft. Arithmetic goes
// through mgl64 so the same vector math serves probes, translations, and
// plane checks.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec returns the point as an mgl64 vector.
func (p Point3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// FromVec converts an mgl64 vector to a Point3.
func FromVec(v mgl64.Vec3) Point3 {
	return Point3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Add returns p + q.
func (p Point3) Add(q Point3) Point3 {
	return FromVec(p.Vec().Add(q.Vec()))
}

// Sub returns p - q.
func (p Point3) Sub(q Point3) Point3 {
	return FromVec(p.Vec().Sub(q.Vec()))
}

// Scale returns p scaled by s.
func (p Point3) Scale(s float64) Point3 {
	return FromVec(p.Vec().Mul(s))
}

// Dot returns the dot product of p and q.
func (p Point3) Dot(q Point3) float64 {
	return p.Vec().Dot(q.Vec())
}

// DistanceTo returns the euclidean distance between p and q.
func (p Point3) DistanceTo(q Point3) float64 {
	return p.Vec().Sub(q.Vec()).Len()
}

// PointsClose reports whether two points coincide within tolerance.
// Endpoint equality is always tolerance-based, never exact.
func PointsClose(a, b Point3, tol float64) bool {
	return a.DistanceTo(b) <= tol
}

// Curve is a bounded segment snapshot with two ordered endpoints.
type Curve struct {
	Start Point3 `json:"start"`
	End   Point3 `json:"end"`
}

// Length returns the endpoint-to-endpoint length of the curve.
func (c Curve) Length() float64 {
	return c.Start.DistanceTo(c.End)
}

// Reversed returns the curve with its endpoint order swapped.
func (c Curve) Reversed() Curve {
	return Curve{Start: c.End, End: c.Start}
}

// Translated returns the curve rigidly shifted by delta.
func (c Curve) Translated(delta Point3) Curve {
	return Curve{Start: c.Start.Add(delta), End: c.End.Add(delta)}
}

// BoundaryLoop is an ordered sequence of curves forming one boundary of a
// planar face. A well-formed loop is closed: consecutive curves share an
// endpoint within tolerance, and the last curve meets the first.
type BoundaryLoop []Curve

// Vertices returns every endpoint of every curve in order. Shared endpoints
// appear twice; that is harmless for range and plane checks, which only care
// about extremes and deviations.
func (l BoundaryLoop) Vertices() []Point3 {
	pts := make([]Point3, 0, len(l)*2)
	for _, c := range l {
		pts = append(pts, c.Start, c.End)
	}
	return pts
}

// ZRange returns the min and max vertex elevation across the loop.
func (l BoundaryLoop) ZRange() (minZ, maxZ float64) {
	if len(l) == 0 {
		return 0, 0
	}
	minZ, maxZ = l[0].Start.Z, l[0].Start.Z
	for _, v := range l.Vertices() {
		if v.Z < minZ {
			minZ = v.Z
		}
		if v.Z > maxZ {
			maxZ = v.Z
		}
	}
	return minZ, maxZ
}

// Length returns the total curve length of the loop.
func (l BoundaryLoop) Length() float64 {
	var total float64
	for _, c := range l {
		total += c.Length()
	}
	return total
}

// Translated returns the loop rigidly shifted by delta.
func (l BoundaryLoop) Translated(delta Point3) BoundaryLoop {
	out := make(BoundaryLoop, len(l))
	for i, c := range l {
		out[i] = c.Translated(delta)
	}
	return out
}

// IsClosed reports whether every consecutive curve pair shares an endpoint
// within tol, including the wrap-around from the last curve back to the
// first.
func (l BoundaryLoop) IsClosed(tol float64) bool {
	if len(l) == 0 {
		return false
	}
	for i := range l {
		next := l[(i+1)%len(l)]
		if !PointsClose(l[i].End, next.Start, tol) {
			return false
		}
	}
	return true
}

// IsPlanar reports whether all loop vertices lie within tol of the plane
// through the loop's first vertex with the given normal. A zero normal
// cannot define a plane and always fails.
func (l BoundaryLoop) IsPlanar(normal Point3, tol float64) bool {
	if len(l) == 0 {
		return false
	}
	n := normal.Vec()
	if n.Len() < 1e-12 {
		return false
	}
	n = n.Normalize()
	origin := l[0].Start.Vec()
	for _, v := range l.Vertices() {
		if math.Abs(v.Vec().Sub(origin).Dot(n)) > tol {
			return false
		}
	}
	return true
}

// Face is a planar region snapshot of one wall face: an outward unit normal
// plus one or more boundary loops, outer loop first. Holes beyond the outer
// loop pass through untouched; the split pipeline only reads the outer one.
type Face struct {
	ID     string         `json:"id"`
	WallID string         `json:"wall_id"`
	Normal Point3         `json:"normal"`
	Loops  []BoundaryLoop `json:"loops"`
}

// Outer returns the face's outer boundary loop, or nil for degenerate faces.
func (f Face) Outer() BoundaryLoop {
	if len(f.Loops) == 0 {
		return nil
	}
	return f.Loops[0]
}

// ZRange returns the elevation range [min_z, max_z] of the outer loop.
func (f Face) ZRange() (minZ, maxZ float64) {
	return f.Outer().ZRange()
}

// Height returns the vertical extent of the face.
func (f Face) Height() float64 {
	minZ, maxZ := f.ZRange()
	return maxZ - minZ
}

// Center returns the mean of the outer loop's vertices. For the vertical
// planar faces this pipeline handles it stands in for the parametric face
// center and always lies on the face plane.
func (f Face) Center() Point3 {
	verts := f.Outer().Vertices()
	if len(verts) == 0 {
		return Point3{}
	}
	sum := mgl64.Vec3{}
	for _, v := range verts {
		sum = sum.Add(v.Vec())
	}
	return FromVec(sum.Mul(1.0 / float64(len(verts))))
}

// Wall is a wall element snapshot. Its base elevation is the supporting
// level's elevation plus the wall's own offset from that level.
type Wall struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	LevelElevation float64 `json:"level_elevation"` // ft
	BaseOffset     float64 `json:"base_offset"`     // ft
}

// BaseElevation returns the wall's absolute base elevation.
func (w Wall) BaseElevation() float64 {
	return w.LevelElevation + w.BaseOffset
}

// AttributeKind is the storage kind of a host attribute value.
type AttributeKind string

const (
	AttributeText    AttributeKind = "text"
	AttributeNumber  AttributeKind = "number"
	AttributeInteger AttributeKind = "integer"
)

// Attribute is a host element attribute snapshot. The clearance policy only
// accepts text attributes; carrying the kind lets it distinguish a wrong
// storage kind from a missing value.
type Attribute struct {
	Kind  AttributeKind `json:"kind"`
	Value string        `json:"value"`
}

// Room is a bounded spatial region snapshot with the data both height
// policies need.
type Room struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Number          string     `json:"number"`
	Phase           string     `json:"phase,omitempty"`
	Clearance       *Attribute `json:"clearance,omitempty"` // Required clear height, free text
	UnboundedHeight float64    `json:"unbounded_height"`    // ft; 0 = unset
	BaseElevation   float64    `json:"base_elevation"`      // ft
	BaseOffset      float64    `json:"base_offset"`         // ft
	UpperElevation  float64    `json:"upper_elevation"`     // ft
	UpperOffset     float64    `json:"upper_offset"`        // ft
}

// VerticalRange returns the room's bottom and top elevations.
func (r Room) VerticalRange() (bottom, top float64) {
	return r.BaseElevation + r.BaseOffset, r.UpperElevation + r.UpperOffset
}

// Profile is a closed, planar boundary loop synthesized as the cut boundary
// for a face split. Every profile that reaches the mutation boundary is
// closed and planar; the builder validates both before returning one.
type Profile struct {
	Loop BoundaryLoop `json:"loop"`
}

// VerticalExtent returns the height of the profile's elevation range.
func (p Profile) VerticalExtent() float64 {
	minZ, maxZ := p.Loop.ZRange()
	return maxZ - minZ
}

// Perimeter returns the total curve length of the profile.
func (p Profile) Perimeter() float64 {
	return p.Loop.Length()
}

// Area returns the enclosed planar area, computed from the cross products
// of consecutive loop vertices. Valid for the closed planar loops the
// builder produces.
func (p Profile) Area() float64 {
	if len(p.Loop) < 3 {
		return 0
	}
	origin := p.Loop[0].Start.Vec()
	sum := mgl64.Vec3{}
	for i := range p.Loop {
		a := p.Loop[i].Start.Vec().Sub(origin)
		b := p.Loop[(i+1)%len(p.Loop)].Start.Vec().Sub(origin)
		sum = sum.Add(a.Cross(b))
	}
	return sum.Len() / 2
}

// FailureKind identifies the stage category of a non-fatal pipeline failure.
type FailureKind string

const (
	FailureNoSideFaces        FailureKind = "no_side_faces"        // Wall geometry yields no vertical faces
	FailureRoomNotFound       FailureKind = "room_not_found"       // Probe sequence exhausted with no containment hit
	FailureInvalidHeightValue FailureKind = "invalid_height_value" // Clearance attribute missing, wrong kind, or non-numeric
	FailureHeightOutOfRange   FailureKind = "height_out_of_range"  // Height <= 0 or >= the face's vertical extent
	FailureNoBottomCurves     FailureKind = "no_bottom_curves"     // No usable boundary curves at the face's lowest elevation
	FailureNoConnectors       FailureKind = "no_connectors"        // Every vertical connector was degenerate
	FailureLoopNotClosed      FailureKind = "loop_not_closed"      // Assembled profile has an endpoint gap
	FailureLoopNotPlanar      FailureKind = "loop_not_planar"      // Assembled profile leaves the face plane
	FailureMutationFailed     FailureKind = "mutation_failed"      // Host rejected the split operation
)

// Failure is a typed pipeline failure. It implements error so stage
// functions return it through ordinary error values; the orchestrator
// downgrades every Failure to an Outcome record and keeps going.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Detail
}

// NewFailure builds a Failure with a fixed detail message.
func NewFailure(kind FailureKind, detail string) *Failure {
	return &Failure{Kind: kind, Detail: detail}
}

// Failf builds a Failure with a formatted detail message.
func Failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// AsFailure extracts the typed Failure from an error chain. Errors that are
// not Failures are wrapped under the given fallback kind so callers always
// get a reportable record.
func AsFailure(err error, fallback FailureKind) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: fallback, Detail: err.Error()}
}

// Result states whether a processed face was split or skipped.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Outcome is the immutable record of one processed (wall, face) pair.
// Outcomes are created once, appended to the run's ordered list, and never
// mutated afterwards.
type Outcome struct {
	WallID           string   `json:"wall_id"`
	WallName         string   `json:"wall_name,omitempty"`
	FaceID           string   `json:"face_id,omitempty"`
	RoomID           string   `json:"room_id,omitempty"`
	RoomName         string   `json:"room_name,omitempty"`
	Height           float64  `json:"height,omitempty"`            // ft; resolved split height, 0 = never resolved
	FaceHeight       float64  `json:"face_height,omitempty"`       // ft; vertical extent of the face
	ProfilePerimeter float64  `json:"profile_perimeter,omitempty"` // ft; set on success
	ProfileArea      float64  `json:"profile_area,omitempty"`      // sq ft; set on success
	Result           Result   `json:"result"`
	Failure          *Failure `json:"failure,omitempty"`
	NewFaceID        string   `json:"new_face_id,omitempty"` // Face created by the split
}

// Succeeded reports whether the face was split (or would be, in a dry run).
func (o Outcome) Succeeded() bool {
	return o.Result == ResultSuccess
}

// HeightPolicy selects how the split height is derived from a room.
type HeightPolicy string

const (
	HeightPolicyClearance HeightPolicy = "clearance" // Parse the room's free-text clearance attribute
	HeightPolicyBounds    HeightPolicy = "bounds"    // Derive from the room's bounding elevations
)

// Settings holds the split pipeline configuration.
type Settings struct {
	NormalAngleTolerance     float64      `json:"normal_angle_tolerance"`     // Max |normal . Z| for a side face
	OffsetSequence           []float64    `json:"offset_sequence"`            // Room probe offsets in ft, ascending
	HeightPolicy             HeightPolicy `json:"height_policy"`              // "clearance" or "bounds"
	UnitConversionFactor     float64      `json:"unit_conversion_factor"`     // Clearance text units -> ft
	CurveToleranceMultiplier float64      `json:"curve_tolerance_multiplier"` // Safety factor over the kernel's minimum curve length
	Phase                    string       `json:"phase,omitempty"`            // Optional phase scope for room queries
	Workers                  int          `json:"workers"`                    // Parallel compute workers; <= 0 means one per CPU
}

func DefaultSettings() Settings {
	return Settings{
		NormalAngleTolerance:     0.1,
		OffsetSequence:           []float64{0.01, 0.1, 0.5, 1.0},
		HeightPolicy:             HeightPolicyClearance,
		UnitConversionFactor:     1.0 / MillimetersPerFoot, // Clearance text entered in mm
		CurveToleranceMultiplier: 1.01,
		Workers:                  4,
	}
}

// Validate rejects settings the pipeline cannot run with.
func (s Settings) Validate() error {
	if s.NormalAngleTolerance <= 0 {
		return fmt.Errorf("normal angle tolerance must be positive, got %g", s.NormalAngleTolerance)
	}
	if len(s.OffsetSequence) == 0 {
		return errors.New("offset sequence must not be empty")
	}
	for i, off := range s.OffsetSequence {
		if off <= 0 {
			return fmt.Errorf("offset sequence values must be positive, got %g at index %d", off, i)
		}
		if i > 0 && off <= s.OffsetSequence[i-1] {
			return fmt.Errorf("offset sequence must be strictly ascending, got %g after %g", off, s.OffsetSequence[i-1])
		}
	}
	switch s.HeightPolicy {
	case HeightPolicyClearance, HeightPolicyBounds:
	default:
		return fmt.Errorf("unknown height policy %q", s.HeightPolicy)
	}
	if s.UnitConversionFactor <= 0 {
		return fmt.Errorf("unit conversion factor must be positive, got %g", s.UnitConversionFactor)
	}
	if s.CurveToleranceMultiplier < 1 {
		return fmt.Errorf("curve tolerance multiplier must be >= 1, got %g", s.CurveToleranceMultiplier)
	}
	return nil
}
