// Package main is the entry point for the numderiv HTTP server.
//
// The server evaluates numerical derivatives of user-supplied formulas. Formulas
// are compiled in a sandbox that only admits arithmetic on x, numeric literals
// and an allow-list of functions and constants.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
