package api

import (
	"gopwr/domain/power"
)

// effectInput carries either f or the (delta, sigma) pair for one factor.
type effectInput struct {
	F     *float64 `json:"f"`
	Delta *float64 `json:"delta"`
	Sigma *float64 `json:"sigma"`
}

func (e effectInput) effect() power.Effect {
	return power.EffectFromOptional(e.F, e.Delta, e.Sigma)
}

// twoWayEffectInput carries per-factor effect inputs.
type twoWayEffectInput struct {
	FA     *float64 `json:"f_a"`
	FB     *float64 `json:"f_b"`
	DeltaA *float64 `json:"delta_a"`
	DeltaB *float64 `json:"delta_b"`
	SigmaA *float64 `json:"sigma_a"`
	SigmaB *float64 `json:"sigma_b"`
}

func (e twoWayEffectInput) effects() (power.Effect, power.Effect) {
	return power.EffectFromOptional(e.FA, e.DeltaA, e.SigmaA),
		power.EffectFromOptional(e.FB, e.DeltaB, e.SigmaB)
}

// OneWayPowerRequest is the body of POST /api/v1/power/oneway
type OneWayPowerRequest struct {
	K     int      `json:"k" binding:"required"`
	N     float64  `json:"n" binding:"required"`
	Alpha *float64 `json:"alpha"`
	effectInput
}

// OneWaySampleSizeRequest is the body of POST /api/v1/samplesize/oneway
type OneWaySampleSizeRequest struct {
	K       int      `json:"k" binding:"required"`
	Power   float64  `json:"power" binding:"required"`
	Alpha   *float64 `json:"alpha"`
	Ceiling int      `json:"ceiling"`
	effectInput
}

// TwoWayPowerRequest is the body of POST /api/v1/power/twoway
type TwoWayPowerRequest struct {
	A     int      `json:"a" binding:"required"`
	B     int      `json:"b" binding:"required"`
	SizeA float64  `json:"size_a" binding:"required"`
	SizeB float64  `json:"size_b" binding:"required"`
	Alpha *float64 `json:"alpha"`
	twoWayEffectInput
}

// TwoWaySampleSizeRequest is the body of POST /api/v1/samplesize/twoway
type TwoWaySampleSizeRequest struct {
	A       int      `json:"a" binding:"required"`
	B       int      `json:"b" binding:"required"`
	Power   float64  `json:"power" binding:"required"`
	Alpha   *float64 `json:"alpha"`
	Ceiling int      `json:"ceiling"`
	twoWayEffectInput
}

// curveRangeInput is shared by the curve requests.
type curveRangeInput struct {
	From        int     `json:"from" binding:"required"`
	To          int     `json:"to" binding:"required"`
	TargetPower float64 `json:"target_power"`
}

func (c curveRangeInput) curveRange() power.CurveRange {
	return power.CurveRange{From: c.From, To: c.To, TargetPower: c.TargetPower}
}

// OneWayCurveRequest is the body of POST /api/v1/curve/oneway
type OneWayCurveRequest struct {
	K     int      `json:"k" binding:"required"`
	Alpha *float64 `json:"alpha"`
	effectInput
	curveRangeInput
}

// TwoWayCurveRequest is the body of POST /api/v1/curve/twoway
type TwoWayCurveRequest struct {
	A     int      `json:"a" binding:"required"`
	B     int      `json:"b" binding:"required"`
	Alpha *float64 `json:"alpha"`
	twoWayEffectInput
	curveRangeInput
}

// Response wraps every calculation result.
type Response struct {
	CalculationID string      `json:"calculation_id"`
	Result        interface{} `json:"result"`
	Capped        *bool       `json:"capped,omitempty"`
	Report        string      `json:"report,omitempty"`
}

// ErrorResponse is returned on failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
