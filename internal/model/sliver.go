package model

import "sort"

// SliverWarning flags a successful split whose remaining upper band is so
// thin the clearance value probably deserves a second look before drawings
// are issued.
type SliverWarning struct {
	WallID    string  `json:"wall_id"`
	WallName  string  `json:"wall_name,omitempty"`
	FaceID    string  `json:"face_id"`
	RoomName  string  `json:"room_name,omitempty"`
	Height    float64 `json:"height"`    // ft, applied split height
	Remainder float64 `json:"remainder"` // ft left between the split and the face top
}

// MinRemainderHeight is the default minimum upper band (in ft) a split may
// leave before it is reported as a sliver. 0.25 ft = 3".
const MinRemainderHeight = 0.25

// DetectSlivers scans successful outcomes for splits sitting within
// minRemainder of the face top. Pass minRemainder <= 0 to use
// MinRemainderHeight. Results are sorted thinnest first.
func DetectSlivers(outcomes []Outcome, minRemainder float64) []SliverWarning {
	if minRemainder <= 0 {
		minRemainder = MinRemainderHeight
	}

	var warnings []SliverWarning
	for _, o := range outcomes {
		if !o.Succeeded() || o.FaceHeight <= 0 {
			continue
		}
		remainder := o.FaceHeight - o.Height
		if remainder < minRemainder {
			warnings = append(warnings, SliverWarning{
				WallID:    o.WallID,
				WallName:  o.WallName,
				FaceID:    o.FaceID,
				RoomName:  o.RoomName,
				Height:    o.Height,
				Remainder: remainder,
			})
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Remainder < warnings[j].Remainder
	})

	return warnings
}
