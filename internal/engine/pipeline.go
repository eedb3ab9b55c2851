package engine

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/WallCut/internal/host"
	"github.com/piwi3910/WallCut/internal/model"
)

// Pipeline runs the split workflow over a document. Geometry reads and
// profile computation fan out across workers; mutations apply serially
// inside a single edit session so the host document sees one atomic
// change set.
type Pipeline struct {
	Settings model.Settings
	// DryRun computes every profile but opens no edit session and
	// applies no splits. Outcomes report what a real run would do.
	DryRun bool
	Log    *zap.Logger
}

// NewPipeline builds a pipeline with the given settings. A nil logger
// is replaced with a no-op one.
func NewPipeline(settings model.Settings, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Settings: settings, Log: log}
}

// candidate carries a face through the compute phase. A failed stage
// fills the outcome and leaves ok unset; a completed profile sets ok so
// the mutation phase knows to apply it.
type candidate struct {
	face    model.Face
	profile model.Profile
	outcome model.Outcome
	ok      bool
}

// Run executes the pipeline against a document. The returned outcomes
// follow document wall order, with faces in geometry order inside each
// wall. Per-face failures are recorded as outcomes and processing
// continues; only invalid settings, session errors and context
// cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, doc host.Document, app host.Application) ([]model.Outcome, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	walls := doc.Walls()
	builder := NewProfileBuilder(app, p.Settings, p.Log)

	p.Log.Info("starting split run",
		zap.Int("walls", len(walls)),
		zap.String("policy", string(p.Settings.HeightPolicy)),
		zap.Float64("tolerance", builder.Tolerance),
		zap.Bool("dry_run", p.DryRun))

	workers := p.Settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	perWall := make([][]candidate, len(walls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, wall := range walls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perWall[i] = p.computeWall(gctx, doc, builder, wall)
			return nil
		})
	}
	waitErr := g.Wait()

	var items []candidate
	for _, wallItems := range perWall {
		items = append(items, wallItems...)
	}

	if waitErr != nil {
		// Cancelled mid-compute. Keep the failures already recorded;
		// candidates whose splits never ran are dropped rather than
		// reported as something they are not.
		outcomes := make([]model.Outcome, 0, len(items))
		for _, it := range items {
			if !it.ok {
				outcomes = append(outcomes, it.outcome)
			}
		}
		return outcomes, waitErr
	}

	if p.DryRun {
		outcomes := make([]model.Outcome, 0, len(items))
		for _, it := range items {
			if it.ok {
				it.outcome.Result = model.ResultSuccess
			}
			outcomes = append(outcomes, it.outcome)
		}
		p.logSummary(outcomes)
		return outcomes, nil
	}

	outcomes, err := p.applySplits(ctx, doc, items)
	p.logSummary(outcomes)
	return outcomes, err
}

// computeWall extracts a wall's side faces and computes a candidate per
// face. Geometry errors and walls without vertical faces produce a
// single wall-level failure outcome.
func (p *Pipeline) computeWall(ctx context.Context, doc host.Document, builder *ProfileBuilder, wall model.Wall) []candidate {
	opts := host.GeometryOptions{ComputeReferences: true, IncludeNonVisible: true}
	faces, err := doc.FaceGeometry(wall, opts)
	if err != nil {
		p.Log.Warn("face geometry failed", zap.String("wall", wall.ID), zap.Error(err))
		return []candidate{wallFailure(wall, model.AsFailure(err, model.FailureNoSideFaces))}
	}

	sides := SideFaces(faces, p.Settings.NormalAngleTolerance)
	if len(sides) == 0 {
		return []candidate{wallFailure(wall, model.Failf(model.FailureNoSideFaces,
			"wall %s has no vertical faces", wall.ID))}
	}

	items := make([]candidate, 0, len(sides))
	for _, face := range sides {
		if ctx.Err() != nil {
			break
		}
		items = append(items, p.computeFace(doc, builder, wall, face))
	}
	return items
}

// computeFace runs the per-face stages: room location, height
// resolution, profile construction. The first failing stage decides the
// outcome and later stages are skipped.
func (p *Pipeline) computeFace(doc host.Document, builder *ProfileBuilder, wall model.Wall, face model.Face) candidate {
	out := model.Outcome{
		WallID:     wall.ID,
		WallName:   wall.Name,
		FaceID:     face.ID,
		FaceHeight: face.Height(),
	}

	room, err := LocateRoom(doc, face, p.Settings.OffsetSequence, p.Settings.Phase)
	if err != nil {
		return faceFailure(out, err, model.FailureRoomNotFound)
	}
	out.RoomID = room.ID
	out.RoomName = room.Name

	height, err := ResolveHeight(room, p.Settings)
	if err != nil {
		return faceFailure(out, err, model.FailureInvalidHeightValue)
	}
	out.Height = height

	profile, err := builder.Build(face, height)
	if err != nil {
		return faceFailure(out, err, model.FailureLoopNotClosed)
	}
	out.ProfilePerimeter = profile.Perimeter()
	out.ProfileArea = profile.Area()

	p.Log.Debug("profile ready",
		zap.String("wall", wall.ID),
		zap.String("face", face.ID),
		zap.String("room", room.Name),
		zap.Float64("height", height))

	return candidate{face: face, profile: profile, outcome: out, ok: true}
}

// applySplits opens one edit session, applies every computed profile in
// order and commits. Individual split failures become outcomes and do
// not abort the run; the session rolls back only when commit is never
// reached.
func (p *Pipeline) applySplits(ctx context.Context, doc host.Document, items []candidate) ([]model.Outcome, error) {
	session, err := doc.BeginEdit("Split wall faces")
	if err != nil {
		return nil, fmt.Errorf("failed to open edit session: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := session.Rollback(); rbErr != nil {
			p.Log.Warn("rollback failed", zap.Error(rbErr))
		}
	}()

	outcomes := make([]model.Outcome, 0, len(items))
	var stopErr error
	for _, it := range items {
		if !it.ok {
			outcomes = append(outcomes, it.outcome)
			continue
		}
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}

		newID, splitErr := doc.SplitFace(it.face, it.profile)
		if splitErr != nil {
			it.outcome.Result = model.ResultFailure
			it.outcome.Failure = model.AsFailure(splitErr, model.FailureMutationFailed)
			p.Log.Warn("split failed",
				zap.String("wall", it.outcome.WallID),
				zap.String("face", it.outcome.FaceID),
				zap.Error(splitErr))
		} else {
			it.outcome.Result = model.ResultSuccess
			it.outcome.NewFaceID = newID
		}
		outcomes = append(outcomes, it.outcome)
	}

	// Splits applied before a cancellation are kept; their outcomes
	// already report success.
	if err := session.Commit(); err != nil {
		return outcomes, fmt.Errorf("failed to commit edit session: %w", err)
	}
	committed = true
	return outcomes, stopErr
}

func (p *Pipeline) logSummary(outcomes []model.Outcome) {
	metrics := model.ComputeMetrics(outcomes)
	p.Log.Info("split run finished",
		zap.Int("faces", metrics.TotalFaces),
		zap.Int("successes", metrics.Successes),
		zap.Int("failures", metrics.Failures),
		zap.Float64("success_rate", metrics.SuccessRate))
}

func wallFailure(wall model.Wall, failure *model.Failure) candidate {
	return candidate{outcome: model.Outcome{
		WallID:   wall.ID,
		WallName: wall.Name,
		Result:   model.ResultFailure,
		Failure:  failure,
	}}
}

func faceFailure(out model.Outcome, err error, fallback model.FailureKind) candidate {
	out.Result = model.ResultFailure
	out.Failure = model.AsFailure(err, fallback)
	return candidate{outcome: out}
}
