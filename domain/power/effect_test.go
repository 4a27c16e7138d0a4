package power

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopwr/internal/errors"
)

func ptr(v float64) *float64 { return &v }

func TestEffect_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		effect  Effect
		divisor int
		want    float64
		wantErr bool
	}{
		{name: "direct effect size", effect: EffectSize(0.4), divisor: 5, want: 0.4},
		{name: "zero effect size", effect: EffectSize(0), divisor: 5, want: 0},
		{name: "derived one-way", effect: MeanDifference(1.5, 1), divisor: 5, want: math.Sqrt(0.2 * 0.5625 * 2)},
		{name: "derived two-way factor", effect: MeanDifference(4, 2), divisor: 3, want: math.Sqrt((1.0 / 3.0) * 4 * 2 / 4)},
		{name: "negative sigma keeps magnitude", effect: MeanDifference(2, -2), divisor: 2, want: 0.5},
		{name: "zero sigma", effect: MeanDifference(1.5, 0), divisor: 5, wantErr: true},
		{name: "unset", effect: Effect{}, divisor: 5, wantErr: true},
		{name: "negative effect size", effect: EffectSize(-0.1), divisor: 5, wantErr: true},
		{name: "nan effect size", effect: EffectSize(math.NaN()), divisor: 5, wantErr: true},
		{name: "bad divisor", effect: MeanDifference(1, 1), divisor: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.effect.Resolve(tt.divisor)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEffectFromOptional_DirectWins(t *testing.T) {
	e := EffectFromOptional(ptr(0.25), ptr(10), ptr(0))
	assert.False(t, e.IsDerived())

	f, err := e.Resolve(4)
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)
}

func TestEffectFromOptional_NeedsBothDeltaAndSigma(t *testing.T) {
	assert.False(t, EffectFromOptional(nil, ptr(1), nil).IsSet())
	assert.False(t, EffectFromOptional(nil, nil, ptr(1)).IsSet())

	e := EffectFromOptional(nil, ptr(1), ptr(2))
	assert.True(t, e.IsDerived())
	assert.Equal(t, 1.0, e.Delta())
	assert.Equal(t, 2.0, e.Sigma())
	assert.Equal(t, "delta=1 sigma=2", e.String())
}
