package memdoc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/WallCut/internal/model"
)

// FileVersion is the current document schema version.
const FileVersion = 1

// DefaultMinCurveLength is the fallback minimum curve length for
// documents that do not declare one, about 2.4 mm.
const DefaultMinCurveLength = 1.0 / 128 // ft

// File is the on-disk document schema.
type File struct {
	Version        int         `json:"version"`
	Name           string      `json:"name,omitempty"`
	Phase          string      `json:"phase,omitempty"`
	MinCurveLength float64     `json:"min_curve_length,omitempty"` // ft
	Walls          []WallEntry `json:"walls"`
	Rooms          []RoomEntry `json:"rooms"`
}

// WallEntry is a wall together with its face geometry.
type WallEntry struct {
	model.Wall
	Faces []model.Face `json:"faces"`
}

// RoomEntry is a room together with its plan footprint.
type RoomEntry struct {
	model.Room
	Footprint model.Footprint `json:"footprint"`
}

// Load reads a document file and builds the indexed document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	doc, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// SaveFile writes a document file as indented JSON, creating parent
// directories as needed.
func SaveFile(path string, f File) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Snapshot captures the document's current state as a file value,
// including any splits applied by committed edits.
func (d *Document) Snapshot() File {
	d.mu.RLock()
	defer d.mu.RUnlock()

	f := File{
		Version:        FileVersion,
		Name:           d.name,
		Phase:          d.phase,
		MinCurveLength: d.minCurve,
	}
	for _, wall := range d.walls {
		faces := d.faces[wall.ID]
		cp := make([]model.Face, len(faces))
		copy(cp, faces)
		f.Walls = append(f.Walls, WallEntry{Wall: wall, Faces: cp})
	}
	for _, region := range d.rooms {
		f.Rooms = append(f.Rooms, RoomEntry{Room: region.room, Footprint: region.footprint})
	}
	return f
}

// Save writes the document's current state to path.
func (d *Document) Save(path string) error {
	return SaveFile(path, d.Snapshot())
}
