package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopwr/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PWR_ALPHA", "PWR_SEARCH_CEILING", "PWR_PRETTY", "PWR_CURVE_WORKERS", "PORT", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Defaults.Alpha)
	assert.Equal(t, 100, cfg.Defaults.SearchCeiling)
	assert.True(t, cfg.Defaults.Pretty)
	assert.Equal(t, 4, cfg.Curve.Workers)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PWR_ALPHA", "0.01")
	t.Setenv("PWR_SEARCH_CEILING", "250")
	t.Setenv("PWR_PRETTY", "false")
	t.Setenv("PWR_CURVE_WORKERS", "8")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Defaults.Alpha)
	assert.Equal(t, 250, cfg.Defaults.SearchCeiling)
	assert.False(t, cfg.Defaults.Pretty)
	assert.Equal(t, 8, cfg.Curve.Workers)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PWR_ALPHA", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_CeilingAboveLimit(t *testing.T) {
	t.Setenv("PWR_ALPHA", "")
	t.Setenv("PWR_SEARCH_CEILING", "1000000000")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_UnparseableFallsBack(t *testing.T) {
	t.Setenv("PWR_ALPHA", "")
	t.Setenv("PWR_SEARCH_CEILING", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Defaults.SearchCeiling)
}
