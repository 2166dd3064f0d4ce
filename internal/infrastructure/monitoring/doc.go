/*
Package monitoring provides Prometheus metrics for the derivative server.

# Overview

Each Metrics value owns a private registry with HTTP, tool execution and
engine metrics plus the Go runtime and process collectors.

# Features

- HTTP request metrics (latency, throughput, size) labelled by route template
- Tool execution metrics with failures broken down by error kind
- Engine point counters (evaluated vs skipped); Metrics implements derivative.Observer
- Uptime gauge

# Usage

	metrics := monitoring.NewMetrics()
	engine := derivative.NewEngine(derivative.WithObserver(metrics))

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "math", "math.derivative.range")
	// ... execute ...
	timer.Stop(result.Success, kind)
*/
package monitoring
