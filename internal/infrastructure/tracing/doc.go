/*
Package tracing provides lightweight request tracing for the HTTP server.

# Overview

Each request gets a span. Incoming X-Trace-ID and X-Span-ID headers are
continued, otherwise a new ULID-based trace is started. Finished spans are
logged through zap by a buffered collector goroutine.

# Usage

	tracer := tracing.New("numderiv", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// Inside a handler
	traceID := tracing.GetTraceID(c.Request.Context())

# Trace Format

  - X-Trace-ID: identifier for the entire request flow (trace_<ulid>)
  - X-Span-ID: identifier for the current operation (span_<ulid>)
*/
package tracing
