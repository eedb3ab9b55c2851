package engine

import (
	"go.uber.org/zap"

	"github.com/piwi3910/WallCut/internal/host"
	"github.com/piwi3910/WallCut/internal/model"
)

// ProfileBuilder constructs closed planar cutting profiles from face
// boundaries. Tolerance is the working curve length tolerance: curves
// and connectors shorter than it are treated as degenerate, and loop
// closure and planarity are judged against it.
type ProfileBuilder struct {
	Tolerance float64
	Log       *zap.Logger
}

// NewProfileBuilder derives the working tolerance from the host kernel's
// minimum curve length and the configured multiplier. The multiplier
// keeps the tolerance slightly above the kernel minimum so that curves
// the kernel would reject are dropped here first.
func NewProfileBuilder(app host.Application, settings model.Settings, log *zap.Logger) *ProfileBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileBuilder{
		Tolerance: app.MinimumCurveLength() * settings.CurveToleranceMultiplier,
		Log:       log,
	}
}

// Build assembles the cutting profile for a face at the given height
// above the face bottom. The profile is a closed loop made of the face's
// bottom boundary chain, a copy of that chain lifted by targetHeight,
// and vertical connectors between the chain ends. Failures are reported
// as model.Failure values so the pipeline can classify them.
func (b *ProfileBuilder) Build(face model.Face, targetHeight float64) (model.Profile, error) {
	outer := face.Outer()
	minZ, maxZ := outer.ZRange()
	faceHeight := maxZ - minZ

	// A split at the very bottom or at or above the top leaves nothing
	// to cut; both bounds are strict.
	if targetHeight <= 0 || targetHeight >= faceHeight {
		return model.Profile{}, model.Failf(model.FailureHeightOutOfRange,
			"height %.4f ft outside (0, %.4f) for face %s", targetHeight, faceHeight, face.ID)
	}

	bottom := b.bottomCurves(outer, minZ)
	if len(bottom) == 0 {
		return model.Profile{}, model.Failf(model.FailureNoBottomCurves,
			"face %s has no boundary curves at its base elevation %.4f", face.ID, minZ)
	}

	bottom = orderChain(bottom, b.Tolerance)
	bottom = b.dropDegenerate(bottom, face.ID)
	if len(bottom) == 0 {
		return model.Profile{}, model.Failf(model.FailureNoBottomCurves,
			"all base curves of face %s are shorter than %.6f ft", face.ID, b.Tolerance)
	}

	// Side faces are vertical, so lifting the bottom chain straight up
	// reproduces the boundary shape at the target elevation.
	top := bottom.Translated(model.Point3{Z: targetHeight})

	first, last := bottom[0], bottom[len(bottom)-1]
	closing := model.Curve{Start: last.End, End: top[len(top)-1].End}
	opening := model.Curve{Start: first.Start, End: top[0].Start}

	loop := make(model.BoundaryLoop, 0, 2*len(bottom)+2)
	loop = append(loop, bottom...)

	connectors := 0
	if closing.Length() < b.Tolerance {
		b.Log.Debug("skipping degenerate connector",
			zap.String("face", face.ID),
			zap.Float64("length", closing.Length()))
	} else {
		loop = append(loop, closing)
		connectors++
	}
	for i := len(top) - 1; i >= 0; i-- {
		loop = append(loop, top[i].Reversed())
	}
	if opening.Length() < b.Tolerance {
		b.Log.Debug("skipping degenerate connector",
			zap.String("face", face.ID),
			zap.Float64("length", opening.Length()))
	} else {
		loop = append(loop, opening.Reversed())
		connectors++
	}

	if connectors == 0 {
		return model.Profile{}, model.Failf(model.FailureNoConnectors,
			"no vertical connector of face %s survives the %.6f ft tolerance", face.ID, b.Tolerance)
	}

	if !loop.IsClosed(b.Tolerance) {
		return model.Profile{}, model.Failf(model.FailureLoopNotClosed,
			"profile loop of face %s does not close", face.ID)
	}
	if !loop.IsPlanar(face.Normal, b.Tolerance) {
		return model.Profile{}, model.Failf(model.FailureLoopNotPlanar,
			"profile loop of face %s is not planar", face.ID)
	}

	return model.Profile{Loop: loop}, nil
}

// bottomCurves selects the boundary curves lying at the face base: both
// endpoints within tolerance of the minimum elevation, in loop order.
func (b *ProfileBuilder) bottomCurves(outer model.BoundaryLoop, minZ float64) model.BoundaryLoop {
	var bottom model.BoundaryLoop
	for _, c := range outer {
		if c.Start.Z-minZ <= b.Tolerance && c.End.Z-minZ <= b.Tolerance {
			bottom = append(bottom, c)
		}
	}
	return bottom
}

// dropDegenerate removes curves shorter than the tolerance. The gap a
// dropped curve leaves behind is itself shorter than the tolerance, so
// closure validation still passes over it.
func (b *ProfileBuilder) dropDegenerate(curves model.BoundaryLoop, faceID string) model.BoundaryLoop {
	kept := curves[:0]
	for _, c := range curves {
		if c.Length() < b.Tolerance {
			b.Log.Debug("dropping degenerate base curve",
				zap.String("face", faceID),
				zap.Float64("length", c.Length()))
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// orderChain arranges curves into a connected walk using tolerance
// endpoint matching. Boundary loops may start midway through the face
// base, in which case the selected curves wrap around the loop and are
// out of walk order. Curves that connect to nothing keep their boundary
// order at the tail; loop validation decides whether the gaps they
// leave are tolerable.
func orderChain(curves model.BoundaryLoop, tol float64) model.BoundaryLoop {
	if len(curves) < 2 {
		return curves
	}

	remaining := append(model.BoundaryLoop{}, curves...)

	// Seed with the curve no other curve feeds into.
	seed := 0
	for i, c := range remaining {
		fed := false
		for j, d := range remaining {
			if i != j && model.PointsClose(d.End, c.Start, tol) {
				fed = true
				break
			}
		}
		if !fed {
			seed = i
			break
		}
	}

	chain := model.BoundaryLoop{remaining[seed]}
	remaining = append(remaining[:seed], remaining[seed+1:]...)
	for len(remaining) > 0 {
		tip := chain[len(chain)-1].End
		matched := -1
		for i, c := range remaining {
			if model.PointsClose(c.Start, tip, tol) {
				matched = i
				break
			}
		}
		if matched < 0 {
			break
		}
		chain = append(chain, remaining[matched])
		remaining = append(remaining[:matched], remaining[matched+1:]...)
	}

	return append(chain, remaining...)
}
