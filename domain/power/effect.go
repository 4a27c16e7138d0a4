package power

import (
	"fmt"
	"math"

	"gopwr/internal/errors"
)

type effectKind int

const (
	effectUnset effectKind = iota
	effectDirect
	effectDerived
)

// Effect is the effect-size input of a design: either a standardized effect
// size f given directly, or a minimum detectable mean difference (delta) with a
// standard deviation (sigma) from which f is derived.
type Effect struct {
	kind  effectKind
	f     float64
	delta float64
	sigma float64
}

// EffectSize returns an Effect carrying a standardized effect size f.
func EffectSize(f float64) Effect {
	return Effect{kind: effectDirect, f: f}
}

// MeanDifference returns an Effect derived from delta and sigma.
func MeanDifference(delta, sigma float64) Effect {
	return Effect{kind: effectDerived, delta: delta, sigma: sigma}
}

// EffectFromOptional builds an Effect from optional inputs. A non-nil f always
// wins and delta/sigma are ignored; otherwise both delta and sigma must be
// present. With neither, the returned Effect is unset and fails to resolve.
func EffectFromOptional(f, delta, sigma *float64) Effect {
	switch {
	case f != nil:
		return EffectSize(*f)
	case delta != nil && sigma != nil:
		return MeanDifference(*delta, *sigma)
	default:
		return Effect{}
	}
}

// IsSet reports whether the effect carries any usable input.
func (e Effect) IsSet() bool {
	return e.kind != effectUnset
}

// IsDerived reports whether f will be derived from delta and sigma.
func (e Effect) IsDerived() bool {
	return e.kind == effectDerived
}

// Delta and Sigma return the derivation inputs (zero for a direct effect size).
func (e Effect) Delta() float64 { return e.delta }
func (e Effect) Sigma() float64 { return e.sigma }

// Resolve returns the standardized effect size. For a derived effect,
//
//	f = sqrt((1/k) * (delta/2)^2 * 2 / sigma^2)
//
// where k is the divisor: the number of groups for one-way designs, and factor
// A's level count for both factors of a two-way design.
func (e Effect) Resolve(divisor int) (float64, error) {
	switch e.kind {
	case effectDirect:
		if math.IsNaN(e.f) || math.IsInf(e.f, 0) || e.f < 0 {
			return 0, errors.InvalidInputf("effect size must be a finite non-negative number, got %v", e.f)
		}
		return e.f, nil
	case effectDerived:
		if divisor < 1 {
			return 0, errors.InvalidInputf("effect size divisor must be positive, got %d", divisor)
		}
		if e.sigma == 0 {
			return 0, errors.InvalidInput("sigma must be nonzero to derive an effect size")
		}
		half := e.delta / 2
		f := math.Sqrt(((1 / float64(divisor)) * half * half * 2) / (e.sigma * e.sigma))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errors.InvalidInputf("cannot derive effect size from delta=%v sigma=%v", e.delta, e.sigma)
		}
		return f, nil
	default:
		return 0, errors.InvalidInput("either an effect size f or both delta and sigma are required")
	}
}

func (e Effect) String() string {
	switch e.kind {
	case effectDirect:
		return fmt.Sprintf("f=%g", e.f)
	case effectDerived:
		return fmt.Sprintf("delta=%g sigma=%g", e.delta, e.sigma)
	default:
		return "unset"
	}
}
