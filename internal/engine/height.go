package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/WallCut/internal/model"
)

// ResolveHeight computes the target split height for a room under the
// configured policy. The value is measured from the face bottom and is
// not checked against the face extent here; the profile builder owns
// that bound.
func ResolveHeight(room model.Room, settings model.Settings) (float64, error) {
	switch settings.HeightPolicy {
	case model.HeightPolicyBounds:
		return BoundsHeight(room), nil
	default:
		return ClearanceHeight(room, settings.UnitConversionFactor)
	}
}

// ClearanceHeight parses the room's free-text clearance attribute and
// converts it to model units. The attribute stores a bare number in
// display units, typically millimeters, so "2100" with the default
// conversion factor yields about 6.89 ft.
func ClearanceHeight(room model.Room, factor float64) (float64, error) {
	attr := room.Clearance
	if attr == nil {
		return 0, model.Failf(model.FailureInvalidHeightValue,
			"room %s has no clearance attribute", room.ID)
	}
	if attr.Kind != model.AttributeText {
		return 0, model.Failf(model.FailureInvalidHeightValue,
			"clearance attribute of room %s has kind %q, want %q", room.ID, attr.Kind, model.AttributeText)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(attr.Value), 64)
	if err != nil {
		return 0, model.Failf(model.FailureInvalidHeightValue,
			"clearance %q of room %s is not numeric", attr.Value, room.ID)
	}

	height := value * factor
	if math.IsNaN(height) || math.IsInf(height, 0) {
		return 0, model.Failf(model.FailureInvalidHeightValue,
			"clearance %q of room %s is not finite", attr.Value, room.ID)
	}
	return height, nil
}

// BoundsHeight derives the split height from the room's bounding levels.
// A nonzero unbounded height wins outright; otherwise the height is the
// distance between the room's offset-adjusted upper and base elevations.
// The result may be zero or negative for degenerate level setups, which
// the profile builder rejects as out of range.
func BoundsHeight(room model.Room) float64 {
	if room.UnboundedHeight != 0 {
		return room.UnboundedHeight
	}
	bottom, top := room.VerticalRange()
	return top - bottom
}
