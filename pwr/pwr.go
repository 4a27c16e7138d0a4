// Package pwr exposes balanced one-way and two-way ANOVA power and sample-size
// calculations as plain functions over the default gonum-backed engine.
//
// Effect sizes are passed as a power.Effect: power.EffectSize(f) for a direct
// effect size, or power.MeanDifference(delta, sigma) to derive one.
package pwr

import (
	"gopwr/adapters/stats/ncf"
	"gopwr/app"
	"gopwr/domain/power"
)

var defaultService = app.NewPowerService(ncf.NewEngine())

// PowerOneWay returns the power of a one-way design with k groups of n.
func PowerOneWay(k int, n, alpha float64, effect power.Effect) (float64, error) {
	res, err := defaultService.OneWayPower(power.OneWayDesign{
		Groups:   k,
		PerGroup: n,
		Alpha:    alpha,
		Effect:   effect,
	})
	if err != nil {
		return 0, err
	}
	return res.Power, nil
}

// SampleSizeOneWay returns the smallest per-group size reaching target power,
// or ceiling+1 when no size up to ceiling+1 does. A ceiling <= 0 means 100.
func SampleSizeOneWay(k int, alpha, target float64, effect power.Effect, ceiling int) (int, error) {
	res, err := defaultService.OneWaySampleSize(power.OneWaySizing{
		Groups:      k,
		Alpha:       alpha,
		TargetPower: target,
		Effect:      effect,
		Ceiling:     ceiling,
	})
	if err != nil {
		return 0, err
	}
	return res.N, nil
}

// PowerTwoWay returns min(power_A, power_B) for an a-by-b design.
func PowerTwoWay(a, b int, alpha, sizeA, sizeB float64, effectA, effectB power.Effect) (float64, error) {
	res, err := defaultService.TwoWayPower(power.TwoWayDesign{
		LevelsA: a,
		LevelsB: b,
		Alpha:   alpha,
		SizeA:   sizeA,
		SizeB:   sizeB,
		EffectA: effectA,
		EffectB: effectB,
	})
	if err != nil {
		return 0, err
	}
	return res.Power, nil
}

// SampleSizeTwoWay returns max(ss_A, ss_B) for an a-by-b design.
func SampleSizeTwoWay(a, b int, alpha, target float64, effectA, effectB power.Effect, ceiling int) (int, error) {
	res, err := defaultService.TwoWaySampleSize(power.TwoWaySizing{
		LevelsA:     a,
		LevelsB:     b,
		Alpha:       alpha,
		TargetPower: target,
		EffectA:     effectA,
		EffectB:     effectB,
		Ceiling:     ceiling,
	})
	if err != nil {
		return 0, err
	}
	return res.N, nil
}
