// Package engine implements the wall splitting pipeline: side face
// selection, room location, height resolution, profile construction and
// the orchestration that ties them together against a host document.
package engine

import (
	"math"

	"github.com/piwi3910/WallCut/internal/model"
)

// IsSideFace reports whether a face is vertical, i.e. whether the
// vertical component of its unit normal is below the angle tolerance.
func IsSideFace(face model.Face, normalTol float64) bool {
	return math.Abs(face.Normal.Z) < normalTol
}

// SideFaces filters a wall's planar faces down to the vertical ones.
// Faces without boundary loops carry no usable geometry and are dropped
// regardless of orientation. A nil or empty result is not an error here;
// the pipeline records it as a per-wall failure.
func SideFaces(faces []model.Face, normalTol float64) []model.Face {
	var sides []model.Face
	for _, f := range faces {
		if len(f.Loops) == 0 {
			continue
		}
		if IsSideFace(f, normalTol) {
			sides = append(sides, f)
		}
	}
	return sides
}
