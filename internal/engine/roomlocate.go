package engine

import (
	"github.com/piwi3910/WallCut/internal/host"
	"github.com/piwi3910/WallCut/internal/model"
)

// LocateRoom finds the room a side face belongs to by probing points
// offset from the face center along its normal. Offsets are tried in
// ascending order, positive direction before negative at each magnitude,
// so the first hit is always the room nearest the face. The face itself
// sits on the room boundary, which is why probing starts at a small
// offset instead of the center point.
func LocateRoom(doc host.Document, face model.Face, offsets []float64, phase string) (model.Room, error) {
	if len(offsets) == 0 {
		return model.Room{}, model.NewFailure(model.FailureRoomNotFound, "no probe offsets configured")
	}

	center := face.Center()
	for _, offset := range offsets {
		for _, dir := range []float64{1, -1} {
			probe := center.Add(face.Normal.Scale(dir * offset))
			if room, ok := doc.RoomAtPoint(probe, phase); ok {
				return room, nil
			}
		}
	}

	return model.Room{}, model.Failf(model.FailureRoomNotFound,
		"no room within %g ft on either side of face %s", offsets[len(offsets)-1], face.ID)
}
