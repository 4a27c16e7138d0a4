package power

import (
	"math"

	"gopwr/internal/errors"
)

// DefaultSearchCeiling is the number of candidate sizes a sample-size search
// tries before giving up.
const DefaultSearchCeiling = 100

// MaxSearchCeiling bounds the candidate sizes a single search may try.
const MaxSearchCeiling = 10000

// MinSearchSize is the first per-group sample size a search tries.
const MinSearchSize = 2

// OneWayDesign describes a balanced single-factor design with a fixed
// per-group sample size.
type OneWayDesign struct {
	Groups   int     `json:"k"`
	PerGroup float64 `json:"n"`
	Alpha    float64 `json:"alpha"`
	Effect   Effect  `json:"-"`
}

// OneWaySizing asks for the smallest per-group size of a single-factor design
// reaching TargetPower.
type OneWaySizing struct {
	Groups      int     `json:"k"`
	Alpha       float64 `json:"alpha"`
	TargetPower float64 `json:"power"`
	Effect      Effect  `json:"-"`
	Ceiling     int     `json:"ceiling"`
}

// TwoWayDesign describes a balanced two-factor design. SizeA and SizeB are
// evaluated independently, one power computation per factor.
type TwoWayDesign struct {
	LevelsA int     `json:"a"`
	LevelsB int     `json:"b"`
	Alpha   float64 `json:"alpha"`
	SizeA   float64 `json:"size_a"`
	SizeB   float64 `json:"size_b"`
	EffectA Effect  `json:"-"`
	EffectB Effect  `json:"-"`
}

// TwoWaySizing asks for the smallest per-group size of a two-factor design for
// which both factors reach TargetPower.
type TwoWaySizing struct {
	LevelsA     int     `json:"a"`
	LevelsB     int     `json:"b"`
	Alpha       float64 `json:"alpha"`
	TargetPower float64 `json:"power"`
	EffectA     Effect  `json:"-"`
	EffectB     Effect  `json:"-"`
	Ceiling     int     `json:"ceiling"`
}

// FTest is one fully resolved F test: degrees of freedom, noncentrality and
// the significance level it is evaluated at.
type FTest struct {
	DF1         float64 `json:"df1"`
	DF2         float64 `json:"df2"`
	Lambda      float64 `json:"lambda"`
	Alpha       float64 `json:"alpha"`
	EffectSize  float64 `json:"effect_size"`
	TotalSample float64 `json:"total_sample"`
}

// OneWayPower is the result of a one-way power calculation.
type OneWayPower struct {
	Design OneWayDesign `json:"design"`
	Test   FTest        `json:"test"`
	Power  float64      `json:"power"`
}

// TwoWayPower is the result of a two-way power calculation. Power is the
// smaller of the two per-factor powers.
type TwoWayPower struct {
	Design TwoWayDesign `json:"design"`
	TestA  FTest        `json:"test_a"`
	TestB  FTest        `json:"test_b"`
	PowerA float64      `json:"power_a"`
	PowerB float64      `json:"power_b"`
	Power  float64      `json:"power"`
}

// SampleSize is the outcome of a forward sample-size search. When no candidate
// reached the target, N equals Ceiling+1. A target met by the very last
// candidate also reports Ceiling+1, so Capped compares the achieved power too.
type SampleSize struct {
	N           int     `json:"n"`
	Ceiling     int     `json:"ceiling"`
	EffectSize  float64 `json:"effect_size"`
	Power       float64 `json:"achieved_power"`
	TargetPower float64 `json:"target_power"`
}

// Capped reports whether the search exhausted its ceiling without reaching
// the target power.
func (s SampleSize) Capped() bool {
	return s.N > s.Ceiling && s.Power < s.TargetPower
}

// OneWaySampleSize is the result of a one-way sample-size search.
type OneWaySampleSize struct {
	Sizing OneWaySizing `json:"sizing"`
	SampleSize
}

// TotalSample is N*k.
func (r OneWaySampleSize) TotalSample() int {
	return r.N * r.Sizing.Groups
}

// TwoWaySampleSize is the result of a two-way sample-size search. N is the
// larger of the per-factor requirements.
type TwoWaySampleSize struct {
	Sizing  TwoWaySizing `json:"sizing"`
	FactorA SampleSize   `json:"factor_a"`
	FactorB SampleSize   `json:"factor_b"`
	N       int          `json:"n"`
}

// Capped reports whether the binding factor's search hit its ceiling.
func (r TwoWaySampleSize) Capped() bool {
	return r.FactorA.Capped() || r.FactorB.Capped()
}

// TotalSample is N*a*b.
func (r TwoWaySampleSize) TotalSample() int {
	return r.N * r.Sizing.LevelsA * r.Sizing.LevelsB
}

// ResolveCeiling maps a non-positive ceiling to DefaultSearchCeiling.
func ResolveCeiling(ceiling int) int {
	if ceiling <= 0 {
		return DefaultSearchCeiling
	}
	return ceiling
}

// Validate checks the one-way design inputs.
func (d OneWayDesign) Validate() error {
	if err := validateGroups("k", d.Groups); err != nil {
		return err
	}
	if err := validateProbability("alpha", d.Alpha); err != nil {
		return err
	}
	if err := validateSize("n", d.PerGroup); err != nil {
		return err
	}
	if (d.PerGroup-1)*float64(d.Groups) <= 0 {
		return errors.InvalidInputf("n must exceed 1 for a positive denominator df, got %v", d.PerGroup)
	}
	return nil
}

// Validate checks the one-way sizing inputs.
func (s OneWaySizing) Validate() error {
	if err := validateGroups("k", s.Groups); err != nil {
		return err
	}
	if err := validateProbability("alpha", s.Alpha); err != nil {
		return err
	}
	if err := validateCeiling(s.Ceiling); err != nil {
		return err
	}
	return validateProbability("power", s.TargetPower)
}

// Validate checks the two-way design inputs.
func (d TwoWayDesign) Validate() error {
	if err := validateGroups("a", d.LevelsA); err != nil {
		return err
	}
	if err := validateGroups("b", d.LevelsB); err != nil {
		return err
	}
	if err := validateProbability("alpha", d.Alpha); err != nil {
		return err
	}
	if err := validateSize("size_a", d.SizeA); err != nil {
		return err
	}
	if err := validateSize("size_b", d.SizeB); err != nil {
		return err
	}
	for _, size := range []float64{d.SizeA, d.SizeB} {
		if TwoWayDenominatorDF(size, d.LevelsA, d.LevelsB) <= 0 {
			return errors.InvalidInputf("per-group size %v leaves no denominator degrees of freedom", size)
		}
	}
	return nil
}

// Validate checks the two-way sizing inputs.
func (s TwoWaySizing) Validate() error {
	if err := validateGroups("a", s.LevelsA); err != nil {
		return err
	}
	if err := validateGroups("b", s.LevelsB); err != nil {
		return err
	}
	if err := validateProbability("alpha", s.Alpha); err != nil {
		return err
	}
	if err := validateCeiling(s.Ceiling); err != nil {
		return err
	}
	return validateProbability("power", s.TargetPower)
}

// TwoWayDenominatorDF is N-a-b+1 with N = size*a*b. Both factors use it.
func TwoWayDenominatorDF(size float64, a, b int) float64 {
	n := size * float64(a) * float64(b)
	return n - float64(a) - float64(b) + 1
}

func validateGroups(name string, v int) error {
	if v < 2 {
		return errors.InvalidInputf("%s must be at least 2, got %d", name, v)
	}
	return nil
}

func validateCeiling(v int) error {
	if v > MaxSearchCeiling {
		return errors.InvalidInputf("ceiling %d exceeds limit %d", v, MaxSearchCeiling)
	}
	return nil
}

func validateProbability(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v >= 1 {
		return errors.InvalidInputf("%s must lie in (0, 1), got %v", name, v)
	}
	return nil
}

func validateSize(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 {
		return errors.InvalidInputf("%s must be at least 1, got %v", name, v)
	}
	return nil
}
