package app

import (
	"log"
	"math"

	"gopwr/domain/power"
	"gopwr/internal/errors"
	"gopwr/ports"
)

// PowerService computes power and required sample sizes for balanced one-way
// and two-way fixed-effects ANOVA designs. It holds no mutable state and is
// safe for concurrent use.
type PowerService struct {
	dist         ports.FDistributionPort
	curveWorkers int
}

// Option configures a PowerService
type Option func(*PowerService)

// WithCurveWorkers bounds how many curve points are evaluated concurrently.
func WithCurveWorkers(n int) Option {
	return func(s *PowerService) {
		if n > 0 {
			s.curveWorkers = n
		}
	}
}

// NewPowerService creates a power service backed by the given F-distribution engine
func NewPowerService(dist ports.FDistributionPort, opts ...Option) *PowerService {
	s := &PowerService{dist: dist, curveWorkers: DefaultCurveWorkers}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OneWayPower computes the power of a one-way design.
func (s *PowerService) OneWayPower(design power.OneWayDesign) (*power.OneWayPower, error) {
	if err := design.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid one-way design")
	}
	f, err := design.Effect.Resolve(design.Groups)
	if err != nil {
		return nil, errors.Wrap(err, "invalid one-way effect")
	}

	test := oneWayTest(design.Groups, design.PerGroup, design.Alpha, f)
	p, err := s.evaluate(test)
	if err != nil {
		return nil, err
	}

	return &power.OneWayPower{Design: design, Test: test, Power: p}, nil
}

// OneWaySampleSize finds the smallest per-group size of a one-way design that
// reaches the target power.
func (s *PowerService) OneWaySampleSize(sizing power.OneWaySizing) (*power.OneWaySampleSize, error) {
	if err := sizing.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid one-way sizing")
	}
	f, err := sizing.Effect.Resolve(sizing.Groups)
	if err != nil {
		return nil, errors.Wrap(err, "invalid one-way effect")
	}
	sizing.Ceiling = power.ResolveCeiling(sizing.Ceiling)

	ss, err := searchSampleSize(sizing.Ceiling, sizing.TargetPower, func(n int) (float64, error) {
		return s.evaluate(oneWayTest(sizing.Groups, float64(n), sizing.Alpha, f))
	})
	if err != nil {
		return nil, err
	}
	ss.EffectSize = f
	if ss.Capped() {
		log.Printf("⚠️ one-way sample size search hit ceiling %d (k=%d, f=%.4f, target=%.4f)",
			sizing.Ceiling, sizing.Groups, f, sizing.TargetPower)
	}

	return &power.OneWaySampleSize{Sizing: sizing, SampleSize: ss}, nil
}

// TwoWayPower computes per-factor powers of a two-way design and reports the
// weaker one as the design's power.
func (s *PowerService) TwoWayPower(design power.TwoWayDesign) (*power.TwoWayPower, error) {
	if err := design.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid two-way design")
	}
	fA, err := design.EffectA.Resolve(design.LevelsA)
	if err != nil {
		return nil, errors.Wrap(err, "invalid factor A effect")
	}
	// Factor B's effect is scaled by factor A's level count as well.
	fB, err := design.EffectB.Resolve(design.LevelsA)
	if err != nil {
		return nil, errors.Wrap(err, "invalid factor B effect")
	}

	testA := twoWayFactorTest(design.LevelsA, design.LevelsB, design.SizeA, design.Alpha, fA)
	testB := twoWayFactorTest(design.LevelsA, design.LevelsB, design.SizeB, design.Alpha, fB)

	pA, err := s.evaluate(testA)
	if err != nil {
		return nil, errors.Wrap(err, "factor A power")
	}
	pB, err := s.evaluate(testB)
	if err != nil {
		return nil, errors.Wrap(err, "factor B power")
	}

	return &power.TwoWayPower{
		Design: design,
		TestA:  testA,
		TestB:  testB,
		PowerA: pA,
		PowerB: pB,
		Power:  math.Min(pA, pB),
	}, nil
}

// TwoWaySampleSize runs an independent search per factor and returns the
// larger requirement.
func (s *PowerService) TwoWaySampleSize(sizing power.TwoWaySizing) (*power.TwoWaySampleSize, error) {
	if err := sizing.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid two-way sizing")
	}
	fA, err := sizing.EffectA.Resolve(sizing.LevelsA)
	if err != nil {
		return nil, errors.Wrap(err, "invalid factor A effect")
	}
	fB, err := sizing.EffectB.Resolve(sizing.LevelsA)
	if err != nil {
		return nil, errors.Wrap(err, "invalid factor B effect")
	}
	sizing.Ceiling = power.ResolveCeiling(sizing.Ceiling)

	factorSearch := func(f float64) (power.SampleSize, error) {
		ss, err := searchSampleSize(sizing.Ceiling, sizing.TargetPower, func(n int) (float64, error) {
			return s.evaluate(twoWayFactorTest(sizing.LevelsA, sizing.LevelsB, float64(n), sizing.Alpha, f))
		})
		ss.EffectSize = f
		return ss, err
	}

	ssA, err := factorSearch(fA)
	if err != nil {
		return nil, errors.Wrap(err, "factor A sample size")
	}
	ssB, err := factorSearch(fB)
	if err != nil {
		return nil, errors.Wrap(err, "factor B sample size")
	}

	result := &power.TwoWaySampleSize{
		Sizing:  sizing,
		FactorA: ssA,
		FactorB: ssB,
		N:       max(ssA.N, ssB.N),
	}
	if result.Capped() {
		log.Printf("⚠️ two-way sample size search hit ceiling %d (a=%d, b=%d, f_a=%.4f, f_b=%.4f)",
			sizing.Ceiling, sizing.LevelsA, sizing.LevelsB, fA, fB)
	}
	return result, nil
}

// evaluate returns the noncentral F tail beyond the central critical value.
func (s *PowerService) evaluate(test power.FTest) (float64, error) {
	q, err := s.dist.CriticalValue(test.Alpha, test.DF1, test.DF2)
	if err != nil {
		return 0, errors.Wrapf(err, "critical value for df=(%g, %g)", test.DF1, test.DF2)
	}
	p, err := s.dist.NoncentralSurvival(q, test.DF1, test.DF2, test.Lambda)
	if err != nil {
		return 0, errors.Wrapf(err, "noncentral F survival for df=(%g, %g) lambda=%g", test.DF1, test.DF2, test.Lambda)
	}
	return p, nil
}

func oneWayTest(k int, n, alpha, f float64) power.FTest {
	total := n * float64(k)
	return power.FTest{
		DF1:         float64(k - 1),
		DF2:         (n - 1) * float64(k),
		Lambda:      total * (f * f),
		Alpha:       alpha,
		EffectSize:  f,
		TotalSample: total,
	}
}

// twoWayFactorTest builds the F test for one factor of a two-way design. Both
// factors use df1 = a-1 and df2 = N-a-b+1.
func twoWayFactorTest(a, b int, size, alpha, f float64) power.FTest {
	total := size * float64(a) * float64(b)
	return power.FTest{
		DF1:         float64(a - 1),
		DF2:         power.TwoWayDenominatorDF(size, a, b),
		Lambda:      total * (f * f),
		Alpha:       alpha,
		EffectSize:  f,
		TotalSample: total,
	}
}
