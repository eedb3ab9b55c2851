package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/WallCut/internal/host/memdoc"
	"github.com/piwi3910/WallCut/internal/model"
)

// testFace builds a rectangular vertical face in the XZ plane.
func testFace(id string, w, h float64) model.Face {
	return model.Face{
		ID:     id,
		Normal: model.Point3{Y: 1},
		Loops: []model.BoundaryLoop{{
			{Start: model.Point3{}, End: model.Point3{X: w}},
			{Start: model.Point3{X: w}, End: model.Point3{X: w, Z: h}},
			{Start: model.Point3{X: w, Z: h}, End: model.Point3{Z: h}},
			{Start: model.Point3{Z: h}, End: model.Point3{}},
		}},
	}
}

// buildTestReport creates a realistic run report: two successful splits on
// different walls and one failed face.
func buildTestReport() RunReport {
	outcomes := []model.Outcome{
		{
			WallID: "w1", WallName: "South Wall", FaceID: "face-a",
			RoomID: "r1", RoomName: "Kitchen",
			Height: 4, FaceHeight: 10, ProfilePerimeter: 28, ProfileArea: 40,
			Result: model.ResultSuccess, NewFaceID: "a1b2c3d4",
		},
		{
			WallID: "w2", WallName: "North Wall", FaceID: "face-b",
			RoomID: "r2", RoomName: "Bedroom",
			Height: 6, FaceHeight: 10, ProfilePerimeter: 32, ProfileArea: 60,
			Result: model.ResultSuccess, NewFaceID: "e5f6a7b8",
		},
		{
			WallID: "w3", WallName: "Partition", FaceID: "face-c",
			FaceHeight: 10,
			Result:     model.ResultFailure,
			Failure:    model.NewFailure(model.FailureRoomNotFound, "probe sequence exhausted"),
		},
	}

	rep := NewRunReport("plan.wallcut.json", model.DefaultSettings(), 0.0101, outcomes)
	rep.Faces = map[string]model.Face{
		"face-a": testFace("face-a", 10, 10),
		"face-b": testFace("face-b", 10, 10),
		"face-c": testFace("face-c", 10, 10),
	}
	return rep
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")

	err := ExportPDF(path, buildTestReport())
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	// A valid PDF with 3 pages (summary + 2 elevations) should be a reasonable size
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyOutcomes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	rep := NewRunReport("plan.wallcut.json", model.DefaultSettings(), 0.0101, nil)
	err := ExportPDF(path, rep)
	if err == nil {
		t.Fatal("expected error for empty report, got nil")
	}
}

func TestExportPDF_SummaryOnlyWithoutGeometry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary_only.pdf")

	rep := buildTestReport()
	rep.Faces = nil

	err := ExportPDF(path, rep)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_FailuresOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failures.pdf")

	outcomes := []model.Outcome{
		{
			WallID: "w1", WallName: "South Wall", FaceID: "face-a",
			Result:  model.ResultFailure,
			Failure: model.NewFailure(model.FailureInvalidHeightValue, "no clearance attribute"),
		},
		{
			WallID: "w2", WallName: "North Wall",
			Result:  model.ResultFailure,
			Failure: model.NewFailure(model.FailureNoSideFaces, "wall has no vertical faces"),
		},
	}
	rep := NewRunReport("plan.wallcut.json", model.DefaultSettings(), 0.0101, outcomes)

	err := ExportPDF(path, rep)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_WithSliverWarnings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slivers.pdf")

	rep := buildTestReport()
	rep.Outcomes[0].Height = 9.9 // 0.1 ft below the face top
	rep.Metrics = model.ComputeMetrics(rep.Outcomes)
	rep.Slivers = model.DetectSlivers(rep.Outcomes, 0)

	if len(rep.Slivers) != 1 {
		t.Fatalf("expected 1 sliver warning, got %d", len(rep.Slivers))
	}

	err := ExportPDF(path, rep)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_FaceWithOpening(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opening.pdf")

	rep := buildTestReport()
	face := rep.Faces["face-a"]
	window := model.BoundaryLoop{
		{Start: model.Point3{X: 3, Z: 5}, End: model.Point3{X: 6, Z: 5}},
		{Start: model.Point3{X: 6, Z: 5}, End: model.Point3{X: 6, Z: 8}},
		{Start: model.Point3{X: 6, Z: 8}, End: model.Point3{X: 3, Z: 8}},
		{Start: model.Point3{X: 3, Z: 8}, End: model.Point3{X: 3, Z: 5}},
	}
	face.Loops = append(face.Loops, window)
	rep.Faces["face-a"] = face

	err := ExportPDF(path, rep)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_ManyOutcomes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many.pdf")

	// More elevation pages than fit a single summary table row set
	var outcomes []model.Outcome
	faces := map[string]model.Face{}
	for i := 0; i < 20; i++ {
		faceID := fmt.Sprintf("face-%d", i)
		outcomes = append(outcomes, model.Outcome{
			WallID:   fmt.Sprintf("w%d", i),
			WallName: fmt.Sprintf("Wall %d", i+1),
			FaceID:   faceID,
			RoomName: "Hall",
			Height:   5, FaceHeight: 10,
			ProfilePerimeter: 30, ProfileArea: 50,
			Result: model.ResultSuccess, NewFaceID: fmt.Sprintf("new-%d", i),
		})
		faces[faceID] = testFace(faceID, 10, 10)
	}

	rep := NewRunReport("plan.wallcut.json", model.DefaultSettings(), 0.0101, outcomes)
	rep.Faces = faces

	err := ExportPDF(path, rep)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestRollupWalls(t *testing.T) {
	rep := buildTestReport()
	rollups := rollupWalls(rep.Outcomes)

	if len(rollups) != 3 {
		t.Fatalf("expected 3 walls, got %d", len(rollups))
	}
	if rollups[0].name != "South Wall" {
		t.Errorf("expected 'South Wall' first, got %q", rollups[0].name)
	}
	if rollups[0].splits != 1 || rollups[0].failed != 0 {
		t.Errorf("wrong south wall rollup: %+v", rollups[0])
	}
	if rollups[2].failed != 1 || rollups[2].splits != 0 {
		t.Errorf("wrong partition rollup: %+v", rollups[2])
	}
}

func TestSnapshotFaces(t *testing.T) {
	doc, err := memdoc.New(memdoc.SampleFile())
	if err != nil {
		t.Fatalf("failed to build sample document: %v", err)
	}

	faces := SnapshotFaces(doc)

	if len(faces) != 4 {
		t.Fatalf("expected 4 faces, got %d", len(faces))
	}
	south, ok := faces["face-south-in"]
	if !ok {
		t.Fatal("expected face-south-in in the snapshot")
	}
	if south.WallID != "wall-south" {
		t.Errorf("expected wall-south, got %q", south.WallID)
	}
}

func TestRunReportProfileFor(t *testing.T) {
	rep := buildTestReport()

	face, profile, ok := rep.profileFor(rep.Outcomes[0])
	if !ok {
		t.Fatal("expected profile for successful outcome")
	}
	if face.ID != "face-a" {
		t.Errorf("expected face-a, got %q", face.ID)
	}
	if got := profile.VerticalExtent(); got != 4 {
		t.Errorf("expected profile extent 4, got %g", got)
	}

	if _, _, ok := rep.profileFor(rep.Outcomes[2]); ok {
		t.Error("expected no profile for failed outcome")
	}

	rep.Faces = nil
	if _, _, ok := rep.profileFor(rep.Outcomes[0]); ok {
		t.Error("expected no profile without geometry")
	}
}
