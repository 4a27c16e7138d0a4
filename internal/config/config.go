package config

import (
	"fmt"
	"os"
	"strconv"

	"gopwr/domain/power"
	"gopwr/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Defaults DefaultsConfig
	Curve    CurveConfig
	Server   ServerConfig
}

// DefaultsConfig holds values applied when a request leaves them out
type DefaultsConfig struct {
	Alpha         float64
	SearchCeiling int
	Pretty        bool
}

// CurveConfig holds power curve evaluation settings
type CurveConfig struct {
	Workers int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Defaults: *loadDefaultsConfig(),
		Curve:    *loadCurveConfig(),
		Server:   *loadServerConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDefaultsConfig() *DefaultsConfig {
	return &DefaultsConfig{
		Alpha:         getEnvFloatOrDefault("PWR_ALPHA", 0.05),
		SearchCeiling: getEnvIntOrDefault("PWR_SEARCH_CEILING", power.DefaultSearchCeiling),
		Pretty:        getEnvBoolOrDefault("PWR_PRETTY", true),
	}
}

func loadCurveConfig() *CurveConfig {
	return &CurveConfig{
		Workers: getEnvIntOrDefault("PWR_CURVE_WORKERS", 4),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func validateConfig(config *Config) error {
	if config.Defaults.Alpha <= 0 || config.Defaults.Alpha >= 1 {
		return errors.ConfigInvalid("PWR_ALPHA must lie in (0, 1)")
	}
	if config.Defaults.SearchCeiling < 1 || config.Defaults.SearchCeiling > power.MaxSearchCeiling {
		return errors.ConfigInvalid(fmt.Sprintf("PWR_SEARCH_CEILING must lie in [1, %d]", power.MaxSearchCeiling))
	}
	if config.Curve.Workers < 1 {
		return errors.ConfigInvalid("PWR_CURVE_WORKERS must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
