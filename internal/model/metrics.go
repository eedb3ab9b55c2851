package model

// RunMetrics holds aggregate statistics for one pipeline run.
type RunMetrics struct {
	TotalFaces     int                 `json:"total_faces"`     // Outcomes recorded, one per processed item
	Successes      int                 `json:"successes"`       // Faces split (or splittable in a dry run)
	Failures       int                 `json:"failures"`        // Faces skipped with a typed failure
	SuccessRate    float64             `json:"success_rate"`    // Percent
	ByKind         map[FailureKind]int `json:"by_kind"`         // Failure counts per kind
	TotalHeight    float64             `json:"total_height"`    // ft, sum of applied split heights
	MeanHeight     float64             `json:"mean_height"`     // ft
	TotalPerimeter float64             `json:"total_perimeter"` // ft of synthesized profile curves
	TotalSplitArea float64             `json:"total_split_area"` // sq ft enclosed by synthesized profiles
}

// ComputeMetrics aggregates a run's outcome list.
func ComputeMetrics(outcomes []Outcome) RunMetrics {
	m := RunMetrics{
		TotalFaces: len(outcomes),
		ByKind:     map[FailureKind]int{},
	}

	for _, o := range outcomes {
		if o.Succeeded() {
			m.Successes++
			m.TotalHeight += o.Height
			m.TotalPerimeter += o.ProfilePerimeter
			m.TotalSplitArea += o.ProfileArea
			continue
		}
		m.Failures++
		if o.Failure != nil {
			m.ByKind[o.Failure.Kind]++
		}
	}

	if m.TotalFaces > 0 {
		m.SuccessRate = float64(m.Successes) / float64(m.TotalFaces) * 100.0
	}
	if m.Successes > 0 {
		m.MeanHeight = m.TotalHeight / float64(m.Successes)
	}
	return m
}

// FaceMetrics is a per-face report row with the derived values the PDF and
// workbook exports print.
type FaceMetrics struct {
	WallName  string  `json:"wall_name"`
	FaceID    string  `json:"face_id"`
	RoomName  string  `json:"room_name,omitempty"`
	Height    float64 `json:"height"`    // ft
	HeightMM  float64 `json:"height_mm"` // Same height in mm for metric schedules
	Remainder float64 `json:"remainder"` // ft between the split and the face top
	Perimeter float64 `json:"perimeter"` // ft
	Area      float64 `json:"area"`      // sq ft
	Result    Result  `json:"result"`
	Kind      FailureKind `json:"kind,omitempty"`
}

// PerFaceMetrics expands outcomes into report rows, preserving run order.
func PerFaceMetrics(outcomes []Outcome) []FaceMetrics {
	rows := make([]FaceMetrics, 0, len(outcomes))
	for _, o := range outcomes {
		row := FaceMetrics{
			WallName:  o.WallName,
			FaceID:    o.FaceID,
			RoomName:  o.RoomName,
			Height:    o.Height,
			HeightMM:  FeetToMillimeters(o.Height),
			Perimeter: o.ProfilePerimeter,
			Area:      o.ProfileArea,
			Result:    o.Result,
		}
		if o.FaceHeight > 0 && o.Height > 0 {
			row.Remainder = o.FaceHeight - o.Height
		}
		if o.Failure != nil {
			row.Kind = o.Failure.Kind
		}
		if row.WallName == "" {
			row.WallName = o.WallID
		}
		rows = append(rows, row)
	}
	return rows
}
