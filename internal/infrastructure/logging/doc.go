// Package logging builds the zap loggers used by the server and the CLI.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output on stderr, enabled by LOG_DEV or --verbose
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	defer logger.Close()
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
