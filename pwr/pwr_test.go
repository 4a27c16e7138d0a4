package pwr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopwr/domain/power"
)

func TestPowerOneWay(t *testing.T) {
	p, err := PowerOneWay(5, 15, 0.05, power.MeanDifference(1.5, 1))
	require.NoError(t, err)
	assert.InDelta(t, 0.90740261750501, p, 1e-9)

	p, err = PowerOneWay(5, 15, 0.05, power.EffectSize(0.4))
	require.NoError(t, err)
	assert.InDelta(t, 0.771435950291555, p, 1e-9)
}

func TestPowerTwoWay(t *testing.T) {
	p, err := PowerTwoWay(3, 3, 0.05, 4, 5, power.EffectSize(0.8), power.EffectSize(0.4))
	require.NoError(t, err)
	assert.InDelta(t, 0.6333554, p, 1e-7)

	p, err = PowerTwoWay(3, 3, 0.05, 4, 5, power.MeanDifference(4, 2), power.MeanDifference(2, 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.6523857, p, 1e-7)
}

func TestSampleSizeOneWay(t *testing.T) {
	n, err := SampleSizeOneWay(5, 0.05, 0.9, power.EffectSize(1.5), 100)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = SampleSizeOneWay(5, 0.05, 0.9, power.MeanDifference(1.5, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, 15, n)
}

func TestSampleSizeTwoWay(t *testing.T) {
	n, err := SampleSizeTwoWay(3, 3, 0.05, 0.9, power.EffectSize(0.4), power.EffectSize(0.2), 100)
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	n, err = SampleSizeTwoWay(3, 3, 0.05, 0.9, power.MeanDifference(1, 2), power.MeanDifference(2, 2), 100)
	require.NoError(t, err)
	assert.Equal(t, 35, n)
}

func TestSampleSize_CeilingPlusOne(t *testing.T) {
	n, err := SampleSizeOneWay(5, 0.05, 0.99, power.EffectSize(0.05), 20)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	n, err = SampleSizeTwoWay(3, 3, 0.05, 0.99, power.EffectSize(0.05), power.EffectSize(0.05), 20)
	require.NoError(t, err)
	assert.Equal(t, 21, n)
}

func TestZeroSigmaIsRejected(t *testing.T) {
	_, err := PowerOneWay(5, 15, 0.05, power.MeanDifference(1.5, 0))
	assert.Error(t, err)
}
