package app

import (
	"context"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"gopwr/domain/power"
	"gopwr/internal/errors"
)

// DefaultCurveWorkers is the evaluation concurrency used when none is configured.
const DefaultCurveWorkers = 4

// OneWayCurve evaluates one-way power for every per-group size in rng.
// design.PerGroup is ignored.
func (s *PowerService) OneWayCurve(ctx context.Context, design power.OneWayDesign, rng power.CurveRange) (*power.PowerCurve, error) {
	if err := rng.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid curve range")
	}
	design.PerGroup = float64(rng.From)
	if err := design.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid one-way design")
	}
	f, err := design.Effect.Resolve(design.Groups)
	if err != nil {
		return nil, errors.Wrap(err, "invalid one-way effect")
	}

	points, err := s.fanOut(ctx, rng, func(n int) (power.CurvePoint, error) {
		p, err := s.evaluate(oneWayTest(design.Groups, float64(n), design.Alpha, f))
		return power.CurvePoint{N: n, Power: p}, err
	})
	if err != nil {
		return nil, err
	}
	return summarizeCurve("oneway", rng, points)
}

// TwoWayCurve evaluates two-way power for every per-group size in rng, using
// the same size for both factors. design.SizeA and design.SizeB are ignored.
func (s *PowerService) TwoWayCurve(ctx context.Context, design power.TwoWayDesign, rng power.CurveRange) (*power.PowerCurve, error) {
	if err := rng.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid curve range")
	}
	design.SizeA = float64(rng.From)
	design.SizeB = float64(rng.From)
	if err := design.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid two-way design")
	}
	fA, err := design.EffectA.Resolve(design.LevelsA)
	if err != nil {
		return nil, errors.Wrap(err, "invalid factor A effect")
	}
	fB, err := design.EffectB.Resolve(design.LevelsA)
	if err != nil {
		return nil, errors.Wrap(err, "invalid factor B effect")
	}

	points, err := s.fanOut(ctx, rng, func(n int) (power.CurvePoint, error) {
		pA, err := s.evaluate(twoWayFactorTest(design.LevelsA, design.LevelsB, float64(n), design.Alpha, fA))
		if err != nil {
			return power.CurvePoint{}, err
		}
		pB, err := s.evaluate(twoWayFactorTest(design.LevelsA, design.LevelsB, float64(n), design.Alpha, fB))
		if err != nil {
			return power.CurvePoint{}, err
		}
		return power.CurvePoint{N: n, Power: min(pA, pB), PowerA: pA, PowerB: pB}, nil
	})
	if err != nil {
		return nil, err
	}
	return summarizeCurve("twoway", rng, points)
}

// fanOut evaluates point for each size in rng with bounded concurrency. Each
// goroutine writes only its own slot, so the result keeps N order.
func (s *PowerService) fanOut(ctx context.Context, rng power.CurveRange, point func(n int) (power.CurvePoint, error)) ([]power.CurvePoint, error) {
	points := make([]power.CurvePoint, rng.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.curveWorkers)
	for i := range points {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := point(rng.From + i)
			if err != nil {
				return err
			}
			points[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "power curve evaluation failed")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "power curve cancelled")
	}
	return points, nil
}

func summarizeCurve(kind string, rng power.CurveRange, points []power.CurvePoint) (*power.PowerCurve, error) {
	powers := make([]float64, len(points))
	for i, p := range points {
		powers[i] = p.Power
	}

	lo, err := stats.Min(powers)
	if err != nil {
		return nil, errors.Wrap(err, "summarize curve")
	}
	hi, err := stats.Max(powers)
	if err != nil {
		return nil, errors.Wrap(err, "summarize curve")
	}

	curve := &power.PowerCurve{
		Kind:     kind,
		Range:    rng,
		Points:   points,
		MinPower: lo,
		MaxPower: hi,
	}
	if rng.TargetPower > 0 {
		for _, p := range points {
			if p.Power >= rng.TargetPower {
				curve.Reaching = p.N
				break
			}
		}
	}
	return curve, nil
}
