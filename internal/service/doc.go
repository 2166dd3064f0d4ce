// Package service provides the tool registry behind the /services endpoints.
//
// A Provider publishes a Service definition listing its tools and executes
// tool IDs of the form "service.tool". The Registry routes calls by the
// service prefix and ranks tools for free-text discovery.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(math.NewProvider(engine, common.DefaultSettings()))
//	tools := registry.Discover("second derivative", 5)
//	result, err := registry.Execute(ctx, "math.derivative.point", params, appCtx)
package service
