package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/WallCut/internal/model"
)

func runOutcomes() []model.Outcome {
	return []model.Outcome{
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
			WallID: "w3", WallName: "Partition", FaceID: "face-c", FaceHeight: 10,
			Result:  model.ResultFailure,
			Failure: model.NewFailure(model.FailureRoomNotFound, "probe sequence exhausted"),
		},
		{
			WallID: "w4", WallName: "Shaft",
			Result:  model.ResultFailure,
			Failure: model.NewFailure(model.FailureNoSideFaces, ""),
		},
	}
}

func newTestWriter() *Writer {
	return NewWriter("plan.wallcut.json", model.DefaultSettings())
}

func TestSuccessLog_ListsAppliedSplits(t *testing.T) {
	log := newTestWriter().SuccessLog(runOutcomes())

	if !strings.Contains(log, `wall "South Wall" face face-a: split at 4' 0.0"`) {
		t.Errorf("expected applied split line for face-a in log:\n%s", log)
	}
	if !strings.Contains(log, `for room "Kitchen"`) {
		t.Error("expected room name on the split line")
	}
	if !strings.Contains(log, "new face a1b2c3d4") {
		t.Error("expected new face ID on the split line")
	}
	if !strings.Contains(log, "2 of 4 faces split") {
		t.Errorf("expected totals footer in log:\n%s", log)
	}
	if !strings.Contains(log, "total height 10.000 ft (3048 mm)") {
		t.Errorf("expected total height in footer:\n%s", log)
	}
}

func TestSuccessLog_Header(t *testing.T) {
	log := newTestWriter().SuccessLog(runOutcomes())

	if !strings.Contains(log, "WallCut Run Log - Applied Splits") {
		t.Error("expected log title in header")
	}
	if !strings.Contains(log, "Document:  plan.wallcut.json") {
		t.Error("expected document name in header")
	}
	if !strings.Contains(log, "Generated: ") {
		t.Error("expected timestamp line in header")
	}
	if !strings.Contains(log, "Policy:    clearance") {
		t.Error("expected height policy in header")
	}
	if strings.Contains(log, "Phase:") {
		t.Error("expected no phase line when settings carry no phase")
	}
}

func TestSuccessLog_PhaseInHeader(t *testing.T) {
	w := newTestWriter()
	w.Settings.Phase = "Phase 2"
	log := w.SuccessLog(nil)

	if !strings.Contains(log, "Phase:     Phase 2") {
		t.Errorf("expected phase line in header:\n%s", log)
	}
}

func TestSuccessLog_SkipsFailures(t *testing.T) {
	log := newTestWriter().SuccessLog(runOutcomes())

	if strings.Contains(log, "face-c") {
		t.Error("failed faces must not appear in the success log")
	}
}

func TestSuccessLog_NoSplits(t *testing.T) {
	outcomes := runOutcomes()[2:]
	log := newTestWriter().SuccessLog(outcomes)

	if !strings.Contains(log, "No faces were split.") {
		t.Errorf("expected empty-run marker in log:\n%s", log)
	}
	if !strings.Contains(log, "0 of 2 faces split") {
		t.Error("expected zero totals in footer")
	}
	if strings.Contains(log, "total height") {
		t.Error("expected no total height when nothing was split")
	}
}

func TestFailureLog_ListsSkippedFaces(t *testing.T) {
	log := newTestWriter().FailureLog(runOutcomes())

	if !strings.Contains(log, `wall "Partition" face face-c: room_not_found: probe sequence exhausted`) {
		t.Errorf("expected failure line with kind and detail in log:\n%s", log)
	}
	if !strings.Contains(log, "WallCut Run Log - Skipped Faces") {
		t.Error("expected log title in header")
	}
	if !strings.Contains(log, "2 faces skipped") {
		t.Errorf("expected totals footer in log:\n%s", log)
	}
}

func TestFailureLog_TallyByKind(t *testing.T) {
	log := newTestWriter().FailureLog(runOutcomes())

	if !strings.Contains(log, "no_side_faces") || !strings.Contains(log, "room_not_found") {
		t.Errorf("expected per-kind tally in log:\n%s", log)
	}
	// Kinds sorted alphabetically, so no_side_faces precedes room_not_found.
	if strings.Index(log, "no_side_faces") > strings.Index(log, "room_not_found") {
		t.Error("expected tally kinds in sorted order")
	}
}

func TestFailureLog_FaceWithoutID(t *testing.T) {
	log := newTestWriter().FailureLog(runOutcomes())

	if !strings.Contains(log, `wall "Shaft" face -: no_side_faces`) {
		t.Errorf("expected placeholder face label for wall-level failures:\n%s", log)
	}
}

func TestFailureLog_SkipsSuccesses(t *testing.T) {
	log := newTestWriter().FailureLog(runOutcomes())

	if strings.Contains(log, "face-a") || strings.Contains(log, "face-b") {
		t.Error("split faces must not appear in the failure log")
	}
}

func TestFailureLog_NoFailures(t *testing.T) {
	outcomes := runOutcomes()[:2]
	log := newTestWriter().FailureLog(outcomes)

	if !strings.Contains(log, "No faces were skipped.") {
		t.Errorf("expected empty marker in log:\n%s", log)
	}
	if !strings.Contains(log, "0 faces skipped") {
		t.Error("expected zero totals in footer")
	}
}

func TestWriteRunLogs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "logs")

	successPath, failurePath, err := newTestWriter().WriteRunLogs(dir, runOutcomes())
	if err != nil {
		t.Fatalf("WriteRunLogs failed: %v", err)
	}
	if filepath.Base(successPath) != SuccessLogName {
		t.Errorf("success log name = %q, want %q", filepath.Base(successPath), SuccessLogName)
	}
	if filepath.Base(failurePath) != FailureLogName {
		t.Errorf("failure log name = %q, want %q", filepath.Base(failurePath), FailureLogName)
	}

	success, err := os.ReadFile(successPath)
	if err != nil {
		t.Fatalf("failed to read success log: %v", err)
	}
	if !strings.Contains(string(success), "2 of 4 faces split") {
		t.Error("success log on disk missing totals footer")
	}

	failure, err := os.ReadFile(failurePath)
	if err != nil {
		t.Fatalf("failed to read failure log: %v", err)
	}
	if !strings.Contains(string(failure), "2 faces skipped") {
		t.Error("failure log on disk missing totals footer")
	}
}
