package memdoc

import "github.com/piwi3910/WallCut/internal/model"

// SampleFile returns a small two-room apartment document: a kitchen with
// a 2100 mm clearance and a bedroom without one. Under the clearance
// policy the bedroom faces fail height resolution, which makes the
// sample useful for demonstrating both report columns.
func SampleFile() File {
	const (
		wallHeight = 9.0
		phase      = "New Construction"
	)

	kitchen := model.Room{
		ID:              "room-kitchen",
		Name:            "Kitchen",
		Number:          "101",
		Phase:           phase,
		Clearance:       &model.Attribute{Kind: model.AttributeText, Value: "2100"},
		UnboundedHeight: 8,
		UpperElevation:  wallHeight,
	}
	bedroom := model.Room{
		ID:              "room-bedroom",
		Name:            "Bedroom",
		Number:          "102",
		Phase:           phase,
		UnboundedHeight: 8,
		UpperElevation:  wallHeight,
	}

	return File{
		Version:        FileVersion,
		Name:           "Sample Apartment",
		Phase:          phase,
		MinCurveLength: DefaultMinCurveLength,
		Walls: []WallEntry{
			{
				Wall: model.Wall{ID: "wall-south", Name: "South Wall"},
				Faces: []model.Face{
					sideFace("face-south-in", "wall-south",
						model.Point3{Y: 1},
						model.Point3{X: 0, Y: 0}, model.Point3{X: 12, Y: 0},
						wallHeight),
				},
			},
			{
				Wall: model.Wall{ID: "wall-partition", Name: "Partition Wall"},
				Faces: []model.Face{
					sideFace("face-partition-west", "wall-partition",
						model.Point3{X: -1},
						model.Point3{X: 12, Y: 0}, model.Point3{X: 12, Y: 10},
						wallHeight),
					sideFace("face-partition-east", "wall-partition",
						model.Point3{X: 1},
						model.Point3{X: 12, Y: 0}, model.Point3{X: 12, Y: 10},
						wallHeight),
				},
			},
			{
				Wall: model.Wall{ID: "wall-north", Name: "North Wall"},
				Faces: []model.Face{
					sideFace("face-north-in", "wall-north",
						model.Point3{Y: -1},
						model.Point3{X: 12, Y: 10}, model.Point3{X: 24, Y: 10},
						wallHeight),
				},
			},
		},
		Rooms: []RoomEntry{
			{
				Room: kitchen,
				Footprint: model.Footprint{
					{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 10}, {X: 0, Y: 10},
				},
			},
			{
				Room: bedroom,
				Footprint: model.Footprint{
					{X: 12, Y: 0}, {X: 24, Y: 0}, {X: 24, Y: 10}, {X: 12, Y: 10},
				},
			},
		},
	}
}

// sideFace builds a vertical rectangular face from a to b at ground
// level, rising to the given height.
func sideFace(id, wallID string, normal, a, b model.Point3, height float64) model.Face {
	aTop := model.Point3{X: a.X, Y: a.Y, Z: height}
	bTop := model.Point3{X: b.X, Y: b.Y, Z: height}
	return model.Face{
		ID:     id,
		WallID: wallID,
		Normal: normal,
		Loops: []model.BoundaryLoop{{
			{Start: a, End: b},
			{Start: b, End: bTop},
			{Start: bTop, End: aTop},
			{Start: aTop, End: a},
		}},
	}
}
