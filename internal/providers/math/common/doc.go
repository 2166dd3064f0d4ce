// Package common holds the shared state and parameter helpers for math tool operations.
//
// Every operation module embeds *MathOps, which carries the derivative engine and
// the request defaults (step size, point count, expression limits).
//
// Helpers:
//   - Success / Failure / FailureFrom: build types.Result values
//   - GetNumber / GetNumbers / GetInt / GetString: coerce loosely typed JSON params
//   - Compile / Step / PointCount: resolve the common expression, h and points params
//
// Example Usage:
//
//	ops := &common.MathOps{Engine: derivative.NewEngine(), Settings: common.DefaultSettings()}
//	fn, err := ops.Compile(params)
package common
