package operations

import (
	"context"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// DerivativeOps handles finite-difference derivative tools
type DerivativeOps struct {
	*common.MathOps
}

var (
	paramExpression = types.Parameter{Name: "expression", Type: "string", Description: "Formula in x, e.g. sin(x) + x**2", Required: true}
	paramStep       = types.Parameter{Name: "h", Type: "number", Description: "Step size (positive)", Required: false}
)

// GetTools returns derivative tool definitions
func (d *DerivativeOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "math.derivative.point",
			Name:        "Derivative at Point",
			Description: "Estimate f(x), first derivative by forward, backward, central and five-point differences, and the second derivative",
			Parameters: []types.Parameter{
				paramExpression,
				{Name: "x", Type: "number", Description: "Point of evaluation", Required: true},
				paramStep,
			},
			Returns: "object",
		},
		{
			ID:          "math.derivative.method",
			Name:        "Derivative by Method",
			Description: "Estimate a derivative at a point with a single finite-difference method",
			Parameters: []types.Parameter{
				paramExpression,
				{Name: "x", Type: "number", Description: "Point of evaluation", Required: true},
				{Name: "method", Type: "string", Description: "forward, backward, central, five_point or second", Required: true},
				paramStep,
			},
			Returns: "number",
		},
		{
			ID:          "math.derivative.range",
			Name:        "Derivative over Range",
			Description: "Estimate derivatives at evenly spaced points, skipping points where evaluation fails",
			Parameters: []types.Parameter{
				paramExpression,
				{Name: "x_min", Type: "number", Description: "Lower bound", Required: true},
				{Name: "x_max", Type: "number", Description: "Upper bound", Required: true},
				{Name: "points", Type: "number", Description: "Number of points (at least 2)", Required: false},
				paramStep,
			},
			Returns: "object",
		},
		{
			ID:          "math.derivative.points",
			Name:        "Derivative at Points",
			Description: "Estimate derivatives at a list of points, skipping points where evaluation fails",
			Parameters: []types.Parameter{
				paramExpression,
				{Name: "points", Type: "array", Description: "Points as an array or comma-separated string", Required: true},
				paramStep,
			},
			Returns: "object",
		},
	}
}

// Point evaluates every formula at x
func (d *DerivativeOps) Point(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := d.Compile(params)
	if err != nil {
		return common.FailureFrom(err)
	}
	x, ok := common.GetNumber(params, "x")
	if !ok {
		return common.Failure("x parameter required")
	}
	h, err := d.Step(params)
	if err != nil {
		return common.Failure(err.Error())
	}

	sample, err := d.Engine.Point(ctx, fn.Eval, x, h)
	if err != nil {
		return common.FailureFrom(err)
	}
	return common.Success(map[string]interface{}{
		"expression": fn.Source(),
		"h":          h,
		"sample":     sample,
	})
}

// Method evaluates a single formula at x
func (d *DerivativeOps) Method(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := d.Compile(params)
	if err != nil {
		return common.FailureFrom(err)
	}
	x, ok := common.GetNumber(params, "x")
	if !ok {
		return common.Failure("x parameter required")
	}
	name, ok := common.GetString(params, "method")
	if !ok {
		return common.Failure("method parameter required")
	}
	m, err := derivative.ParseMethod(name)
	if err != nil {
		return common.FailureFrom(err)
	}
	h, err := d.Step(params)
	if err != nil {
		return common.Failure(err.Error())
	}

	v, err := derivative.Estimate(m, fn.Eval, x, h)
	if err != nil {
		return common.FailureFrom(err)
	}
	return common.Success(map[string]interface{}{
		"result":   v,
		"method":   string(m),
		"order":    m.Order(),
		"accuracy": m.Accuracy(),
		"h":        h,
	})
}

// Range evaluates evenly spaced points in [x_min, x_max]
func (d *DerivativeOps) Range(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := d.Compile(params)
	if err != nil {
		return common.FailureFrom(err)
	}
	xMin, ok := common.GetNumber(params, "x_min")
	if !ok {
		return common.Failure("x_min parameter required")
	}
	xMax, ok := common.GetNumber(params, "x_max")
	if !ok {
		return common.Failure("x_max parameter required")
	}
	n, err := d.PointCount(params)
	if err != nil {
		return common.Failure(err.Error())
	}
	h, err := d.Step(params)
	if err != nil {
		return common.Failure(err.Error())
	}

	series, err := d.Engine.Range(ctx, fn.Eval, derivative.Range{Min: xMin, Max: xMax, Points: n}, h)
	if err != nil {
		return common.FailureFrom(err)
	}
	return common.Success(seriesData(fn.Source(), h, n, series))
}

// Points evaluates an explicit list of points
func (d *DerivativeOps) Points(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := d.Compile(params)
	if err != nil {
		return common.FailureFrom(err)
	}
	xs, ok := common.GetNumbers(params, "points")
	if !ok {
		return common.Failure("points parameter required (array or comma-separated string)")
	}
	h, err := d.Step(params)
	if err != nil {
		return common.Failure(err.Error())
	}

	series, err := d.Engine.Points(ctx, fn.Eval, xs, h)
	if err != nil {
		return common.FailureFrom(err)
	}
	return common.Success(seriesData(fn.Source(), h, len(xs), series))
}

func seriesData(src string, h float64, requested int, series derivative.Series) map[string]interface{} {
	return map[string]interface{}{
		"expression": src,
		"h":          h,
		"requested":  requested,
		"count":      len(series),
		"samples":    []derivative.Sample(series),
		"agreement":  series.Agreement(),
	}
}
