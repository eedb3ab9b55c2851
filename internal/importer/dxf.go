package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/WallCut/internal/host/memdoc"
	"github.com/piwi3910/WallCut/internal/model"
)

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed footprints.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// FootprintResult holds the results of a DXF footprint import.
type FootprintResult struct {
	Footprints []model.Footprint
	Errors     []string
	Warnings   []string
}

// minFootprintArea is the smallest plan area treated as a real room, in
// square model units after scaling.
const minFootprintArea = 1.0

// ImportFootprints reads room footprints from a DXF floor plan. Each
// closed shape (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs)
// becomes one footprint. Coordinates are multiplied by scale, so a plan
// drawn in millimeters imports into a document in feet with
// scale = 1/304.8. Plan coordinates are preserved; footprints must stay
// where the rooms are for containment probes to hit them.
func ImportFootprints(path string, scale float64) FootprintResult {
	result := FootprintResult{}
	if scale <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Scale must be positive, got %g", scale))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var footprints []model.Footprint
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			fp := lwPolylineToFootprint(e)
			if len(fp) >= 3 {
				footprints = append(footprints, fp)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			footprints = append(footprints, circleToFootprint(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	// Chain loose segments (LINEs and ARCs) into closed footprints
	footprints = append(footprints, chainSegments(segments, 0.01)...)

	if len(footprints) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, fp := range footprints {
		scaled := scaleFootprint(fp, scale)
		area := math.Abs(scaled.SignedArea())
		if area < minFootprintArea {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped shape with area %.2f below minimum %.2f", area, minFootprintArea))
			continue
		}
		result.Footprints = append(result.Footprints, scaled)
	}

	if len(result.Footprints) == 0 {
		result.Errors = append(result.Errors, "No shapes large enough to be rooms found in DXF file")
	}

	return result
}

// RoomsFromFootprints wraps imported footprints into document room
// entries, numbering them in import order. Imported rooms carry no
// clearance attribute; a schedule import fills those in afterwards.
func RoomsFromFootprints(footprints []model.Footprint, phase string, upperElevation float64, startNumber int) []memdoc.RoomEntry {
	entries := make([]memdoc.RoomEntry, 0, len(footprints))
	for i, fp := range footprints {
		number := startNumber + i
		entries = append(entries, memdoc.RoomEntry{
			Room: model.Room{
				ID:             fmt.Sprintf("room-%03d", number),
				Name:           fmt.Sprintf("Room %d", number),
				Number:         fmt.Sprintf("%d", number),
				Phase:          phase,
				UpperElevation: upperElevation,
			},
			Footprint: fp,
		})
	}
	return entries
}

func scaleFootprint(fp model.Footprint, scale float64) model.Footprint {
	out := make(model.Footprint, len(fp))
	for i, p := range fp {
		out[i] = model.Point2D{X: p.X * scale, Y: p.Y * scale}
	}
	return out
}

// lwPolylineToFootprint converts a DXF LWPOLYLINE entity to a footprint.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToFootprint(lw *entity.LwPolyline) model.Footprint {
	var fp model.Footprint

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := model.Point2D{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			// This vertex has a bulge: interpolate an arc to the next vertex
			nextIdx := (i + 1) % len(lw.Vertices)
			next := model.Point2D{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// Add all but the last point (next vertex will be added naturally)
			fp = append(fp, arcPts[:len(arcPts)-1]...)
		} else {
			fp = append(fp, current)
		}
	}

	return fp
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 model.Point2D, bulge float64, numSegments int) []model.Point2D {
	// Chord midpoint and length
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []model.Point2D{p1, p2}
	}

	// Sagitta and radius
	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Perpendicular direction from the chord midpoint to the arc center
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	// Start and end angles
	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)

	// Sweep direction follows the bulge sign
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	var pts []model.Point2D
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, model.Point2D{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToFootprint approximates a circle as a regular polygon.
func circleToFootprint(c *entity.Circle, numSegments int) model.Footprint {
	fp := make(model.Footprint, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		fp[i] = model.Point2D{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return fp
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []model.Point2D {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startDeg := a.Angle[0]
	endDeg := a.Angle[1]

	startRad := startDeg * math.Pi / 180
	endRad := endDeg * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]model.Point2D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = model.Point2D{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []model.Point2D) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed footprints.
// tolerance is the maximum distance between endpoints to consider them
// connected.
func chainSegments(segs []segment, tolerance float64) []model.Footprint {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var footprints []model.Footprint

	for {
		// Find the first unused segment
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		// Try to extend the chain
		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if planPointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if planPointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Drop the duplicate closing point of a closed chain
		if len(chain) >= 3 && planPointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			footprints = append(footprints, model.Footprint(chain))
		}
	}

	// Sort footprints by area (largest first) for consistent ordering
	sort.Slice(footprints, func(i, j int) bool {
		return math.Abs(footprints[i].SignedArea()) > math.Abs(footprints[j].SignedArea())
	})

	return footprints
}

// planPointsClose checks whether two plan points are within the given tolerance.
func planPointsClose(a, b model.Point2D, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}
