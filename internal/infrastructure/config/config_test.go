package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, 1e-5, cfg.Derivative.DefaultStep)
	assert.Equal(t, 50, cfg.Derivative.DefaultPoints)
	assert.Equal(t, 100_000, cfg.Derivative.MaxPoints)
	assert.Equal(t, 0, cfg.Derivative.Workers)
	assert.Equal(t, 2048, cfg.Derivative.ParallelThreshold)

	assert.Equal(t, 1024, cfg.Expression.MaxLength)
	assert.Equal(t, 64, cfg.Expression.MaxDepth)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                     "9000",
		"HOST":                     "127.0.0.1",
		"DERIV_DEFAULT_STEP":       "0.001",
		"DERIV_DEFAULT_POINTS":     "101",
		"DERIV_MAX_POINTS":         "5000",
		"DERIV_WORKERS":            "4",
		"DERIV_PARALLEL_THRESHOLD": "256",
		"EXPR_MAX_LENGTH":          "200",
		"EXPR_MAX_DEPTH":           "16",
		"LOG_LEVEL":                "debug",
		"LOG_DEV":                  "true",
		"RATE_LIMIT_RPS":           "500",
		"RATE_LIMIT_BURST":         "1000",
		"RATE_LIMIT_ENABLED":       "false",
		"RATE_LIMIT_GLOBAL":        "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	assert.Equal(t, 0.001, cfg.Derivative.DefaultStep)
	assert.Equal(t, 101, cfg.Derivative.DefaultPoints)
	assert.Equal(t, 5000, cfg.Derivative.MaxPoints)
	assert.Equal(t, 4, cfg.Derivative.Workers)
	assert.Equal(t, 256, cfg.Derivative.ParallelThreshold)

	assert.Equal(t, 200, cfg.Expression.MaxLength)
	assert.Equal(t, 16, cfg.Expression.MaxDepth)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.RateLimit.Global)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 50, cfg.Derivative.DefaultPoints)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable step", "DERIV_DEFAULT_STEP", "small"},
		{"zero step", "DERIV_DEFAULT_STEP", "0"},
		{"negative step", "DERIV_DEFAULT_STEP", "-1e-5"},
		{"single default point", "DERIV_DEFAULT_POINTS", "1"},
		{"max below default", "DERIV_MAX_POINTS", "10"},
		{"negative workers", "DERIV_WORKERS", "-2"},
		{"zero length", "EXPR_MAX_LENGTH", "0"},
		{"zero depth", "EXPR_MAX_DEPTH", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestRateLimitConfig(t *testing.T) {
	tests := []struct {
		name        string
		rps         string
		burst       string
		enabled     string
		wantRPS     int
		wantBurst   int
		wantEnabled bool
	}{
		{
			name:        "default values",
			wantRPS:     100,
			wantBurst:   200,
			wantEnabled: true,
		},
		{
			name:        "high limits",
			rps:         "1000",
			burst:       "2000",
			wantRPS:     1000,
			wantBurst:   2000,
			wantEnabled: true,
		},
		{
			name:        "disabled",
			enabled:     "false",
			wantRPS:     100,
			wantBurst:   200,
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rps != "" {
				t.Setenv("RATE_LIMIT_RPS", tt.rps)
			}
			if tt.burst != "" {
				t.Setenv("RATE_LIMIT_BURST", tt.burst)
			}
			if tt.enabled != "" {
				t.Setenv("RATE_LIMIT_ENABLED", tt.enabled)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantRPS, cfg.RateLimit.RequestsPerSecond)
			assert.Equal(t, tt.wantBurst, cfg.RateLimit.Burst)
			assert.Equal(t, tt.wantEnabled, cfg.RateLimit.Enabled)
		})
	}
}
