package power

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOneWayDesign_Validate(t *testing.T) {
	valid := OneWayDesign{Groups: 5, PerGroup: 15, Alpha: 0.05, Effect: EffectSize(0.4)}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(d *OneWayDesign)
	}{
		{"one group", func(d *OneWayDesign) { d.Groups = 1 }},
		{"alpha zero", func(d *OneWayDesign) { d.Alpha = 0 }},
		{"alpha one", func(d *OneWayDesign) { d.Alpha = 1 }},
		{"n below one", func(d *OneWayDesign) { d.PerGroup = 0.5 }},
		{"n of one leaves no error df", func(d *OneWayDesign) { d.PerGroup = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestTwoWayDesign_Validate(t *testing.T) {
	valid := TwoWayDesign{LevelsA: 3, LevelsB: 3, Alpha: 0.05, SizeA: 4, SizeB: 5}
	assert.NoError(t, valid.Validate())

	d := valid
	d.LevelsB = 1
	assert.Error(t, d.Validate())

	d = valid
	d.SizeA = 0
	assert.Error(t, d.Validate())

	// a=b=2, size=1: N-a-b+1 = 1, still usable.
	d = TwoWayDesign{LevelsA: 2, LevelsB: 2, Alpha: 0.05, SizeA: 1, SizeB: 1}
	assert.NoError(t, d.Validate())
}

func TestSizing_Validate(t *testing.T) {
	assert.NoError(t, OneWaySizing{Groups: 5, Alpha: 0.05, TargetPower: 0.9}.Validate())
	assert.Error(t, OneWaySizing{Groups: 5, Alpha: 0.05, TargetPower: 1}.Validate())
	assert.NoError(t, TwoWaySizing{LevelsA: 3, LevelsB: 3, Alpha: 0.05, TargetPower: 0.8}.Validate())
	assert.Error(t, TwoWaySizing{LevelsA: 3, LevelsB: 3, Alpha: 1.2, TargetPower: 0.8}.Validate())
}

func TestSizing_ValidateCeiling(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int
		wantErr bool
	}{
		{"default", 0, false},
		{"at limit", MaxSearchCeiling, false},
		{"above limit", MaxSearchCeiling + 1, true},
		{"huge", 1_000_000_000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			one := OneWaySizing{Groups: 5, Alpha: 0.05, TargetPower: 0.9, Ceiling: tt.ceiling}
			two := TwoWaySizing{LevelsA: 3, LevelsB: 3, Alpha: 0.05, TargetPower: 0.9, Ceiling: tt.ceiling}
			if tt.wantErr {
				assert.Error(t, one.Validate())
				assert.Error(t, two.Validate())
				return
			}
			assert.NoError(t, one.Validate())
			assert.NoError(t, two.Validate())
		})
	}
}

func TestSampleSize_Capped(t *testing.T) {
	assert.False(t, SampleSize{N: 100, Ceiling: 100, Power: 0.91, TargetPower: 0.9}.Capped())
	assert.True(t, SampleSize{N: 101, Ceiling: 100, Power: 0.6, TargetPower: 0.9}.Capped())
	// Met by the last candidate: same N, not capped.
	assert.False(t, SampleSize{N: 101, Ceiling: 100, Power: 0.95, TargetPower: 0.9}.Capped())

	r := TwoWaySampleSize{
		Sizing:  TwoWaySizing{LevelsA: 3, LevelsB: 4},
		FactorA: SampleSize{N: 12, Ceiling: 100, Power: 0.92, TargetPower: 0.9},
		FactorB: SampleSize{N: 101, Ceiling: 100, Power: 0.4, TargetPower: 0.9},
		N:       101,
	}
	assert.True(t, r.Capped())
	assert.Equal(t, 101*12, r.TotalSample())
}

func TestResolveCeiling(t *testing.T) {
	assert.Equal(t, DefaultSearchCeiling, ResolveCeiling(0))
	assert.Equal(t, DefaultSearchCeiling, ResolveCeiling(-3))
	assert.Equal(t, 7, ResolveCeiling(7))
}
