// Package http exposes the derivative calculator over a JSON API.
//
// Domain endpoints translate typed request bodies into tool parameters and run
// them through the service registry, so the HTTP surface and POST
// /services/execute share one code path. Failures map to statuses by kind:
// unsafe, syntax and evaluation errors are 422, anything else is 400.
//
// Routes:
//   - GET  /, /health
//   - GET  /expressions/functions
//   - POST /expressions/validate, /expressions/evaluate
//   - POST /derivatives/point, /derivatives/range, /derivatives/points
//   - POST /derivatives/export?format=csv|json|yaml|toml&compression=none|gzip|zstd
//   - GET  /services, POST /services/discover, POST /services/execute
package http
