package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"

	"github.com/piwi3910/WallCut/internal/model"
)

// ExportDXF writes the applied cutting profiles as 3D LINE entities in the
// document's model coordinates (ft), one layer per wall. The drawing opens
// in any CAD tool next to the original plan for setting-out checks.
func ExportDXF(path string, rep RunReport) error {
	if len(rep.Outcomes) == 0 {
		return fmt.Errorf("no outcomes to export")
	}
	if len(rep.Faces) == 0 {
		return fmt.Errorf("no face geometry captured; snapshot the document before the run")
	}

	d := dxf.NewDrawing()
	layers := map[string]bool{}
	written := 0

	for _, out := range rep.Outcomes {
		_, profile, ok := rep.profileFor(out)
		if !ok {
			continue
		}

		layer := profileLayerName(out)
		if layers[layer] {
			if err := d.ChangeLayer(layer); err != nil {
				return fmt.Errorf("failed to switch to layer %s: %w", layer, err)
			}
		} else {
			if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
				return fmt.Errorf("failed to add layer %s: %w", layer, err)
			}
			layers[layer] = true
		}

		for _, c := range profile.Loop {
			if _, err := d.Line(c.Start.X, c.Start.Y, c.Start.Z, c.End.X, c.End.Y, c.End.Z); err != nil {
				return fmt.Errorf("failed to draw profile curve of face %s: %w", out.FaceID, err)
			}
			written++
		}
	}

	if written == 0 {
		return fmt.Errorf("no profiles to export")
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save drawing: %w", err)
	}
	return nil
}

// profileLayerName derives a CAD-safe layer name from the outcome's wall.
func profileLayerName(out model.Outcome) string {
	base := out.WallName
	if base == "" {
		base = out.WallID
	}
	var b strings.Builder
	b.WriteString("SPLIT_")
	for _, r := range strings.ToUpper(base) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
