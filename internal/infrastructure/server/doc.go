// Package server assembles the numderiv HTTP server: logger, metrics, tracer,
// derivative engine, service registry, middleware chain and routes.
//
// Middleware order: Recovery, tracing, metrics, CORS, then the optional
// per-IP rate limiter.
package server
