package power

import (
	"gopwr/internal/errors"
)

// MaxCurvePoints bounds the number of sizes a single curve may evaluate.
const MaxCurvePoints = 5000

// CurveRange selects the per-group sizes a power curve evaluates, inclusive.
// TargetPower is optional; when set, the curve reports the first size that
// reaches it.
type CurveRange struct {
	From        int     `json:"from"`
	To          int     `json:"to"`
	TargetPower float64 `json:"target_power,omitempty"`
}

// Validate checks the range bounds.
func (r CurveRange) Validate() error {
	if r.From < MinSearchSize {
		return errors.InvalidInputf("curve must start at n >= %d, got %d", MinSearchSize, r.From)
	}
	if r.To < r.From {
		return errors.InvalidInputf("curve end %d precedes start %d", r.To, r.From)
	}
	if r.Len() > MaxCurvePoints {
		return errors.InvalidInputf("curve spans %d sizes, limit is %d", r.Len(), MaxCurvePoints)
	}
	if r.TargetPower != 0 {
		if err := validateProbability("target_power", r.TargetPower); err != nil {
			return err
		}
	}
	return nil
}

// Len is the number of sizes in the range.
func (r CurveRange) Len() int {
	return r.To - r.From + 1
}

// CurvePoint is the power achieved at one per-group size.
type CurvePoint struct {
	N      int     `json:"n"`
	Power  float64 `json:"power"`
	PowerA float64 `json:"power_a,omitempty"`
	PowerB float64 `json:"power_b,omitempty"`
}

// PowerCurve is power evaluated over a range of per-group sizes, ordered by N.
type PowerCurve struct {
	Kind     string       `json:"kind"`
	Range    CurveRange   `json:"range"`
	Points   []CurvePoint `json:"points"`
	MinPower float64      `json:"min_power"`
	MaxPower float64      `json:"max_power"`
	// Reaching is the first N whose power meets Range.TargetPower, 0 if none
	// does or no target was given.
	Reaching int `json:"reaching,omitempty"`
}
