// Package config provides 12-factor configuration for the derivative server.
//
// Configuration is loaded from environment variables with defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Derivative: default step, default and maximum point counts, worker pool
//   - Expression: formula length and nesting limits
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - DERIV_DEFAULT_STEP, DERIV_DEFAULT_POINTS, DERIV_MAX_POINTS, DERIV_WORKERS, DERIV_PARALLEL_THRESHOLD
//   - EXPR_MAX_LENGTH, EXPR_MAX_DEPTH
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
