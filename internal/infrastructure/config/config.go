package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Derivative DerivativeConfig
	Expression ExpressionConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// DerivativeConfig holds engine defaults and limits.
type DerivativeConfig struct {
	DefaultStep       float64 `envconfig:"DERIV_DEFAULT_STEP" default:"1e-5"`
	DefaultPoints     int     `envconfig:"DERIV_DEFAULT_POINTS" default:"50"`
	MaxPoints         int     `envconfig:"DERIV_MAX_POINTS" default:"100000"`
	Workers           int     `envconfig:"DERIV_WORKERS" default:"0"` // 0 means GOMAXPROCS
	ParallelThreshold int     `envconfig:"DERIV_PARALLEL_THRESHOLD" default:"2048"`
}

// ExpressionConfig bounds what the expression compiler accepts.
type ExpressionConfig struct {
	MaxLength int `envconfig:"EXPR_MAX_LENGTH" default:"1024"`
	MaxDepth  int `envconfig:"EXPR_MAX_DEPTH" default:"64"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"` // one bucket shared by all clients
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	d := c.Derivative
	switch {
	case !(d.DefaultStep > 0):
		return fmt.Errorf("invalid config: DERIV_DEFAULT_STEP must be positive, got %g", d.DefaultStep)
	case d.DefaultPoints < 2:
		return fmt.Errorf("invalid config: DERIV_DEFAULT_POINTS must be at least 2, got %d", d.DefaultPoints)
	case d.MaxPoints < d.DefaultPoints:
		return fmt.Errorf("invalid config: DERIV_MAX_POINTS %d is below DERIV_DEFAULT_POINTS %d", d.MaxPoints, d.DefaultPoints)
	case d.Workers < 0:
		return fmt.Errorf("invalid config: DERIV_WORKERS must not be negative, got %d", d.Workers)
	case c.Expression.MaxLength <= 0 || c.Expression.MaxDepth <= 0:
		return fmt.Errorf("invalid config: EXPR_MAX_LENGTH and EXPR_MAX_DEPTH must be positive")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Derivative: DerivativeConfig{
			DefaultStep:       1e-5,
			DefaultPoints:     50,
			MaxPoints:         100_000,
			ParallelThreshold: 2048,
		},
		Expression: ExpressionConfig{
			MaxLength: 1024,
			MaxDepth:  64,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			Global:            false,
		},
	}
}
