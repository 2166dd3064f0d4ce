package operations

import (
	"context"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/expression"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// ExpressionOps exposes the expression sandbox as tools
type ExpressionOps struct {
	*common.MathOps
}

// GetTools returns expression tool definitions
func (e *ExpressionOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "math.expression.validate",
			Name:        "Validate Expression",
			Description: "Check that a formula parses and uses only allowed functions and constants",
			Parameters:  []types.Parameter{paramExpression},
			Returns:     "object",
		},
		{
			ID:          "math.expression.evaluate",
			Name:        "Evaluate Expression",
			Description: "Evaluate a formula at x",
			Parameters: []types.Parameter{
				paramExpression,
				{Name: "x", Type: "number", Description: "Value of x", Required: true},
			},
			Returns: "number",
		},
		{
			ID:          "math.expression.functions",
			Name:        "List Functions",
			Description: "List the functions and constants a formula may use",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

// Validate reports whether the expression compiles. An invalid expression is a
// successful call with valid=false.
func (e *ExpressionOps) Validate(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := e.Compile(params)
	if err != nil {
		return common.Success(map[string]interface{}{
			"valid": false,
			"error": err.Error(),
			"kind":  common.ErrorKind(err),
		})
	}
	return common.Success(map[string]interface{}{
		"valid":      true,
		"expression": fn.Source(),
	})
}

// Evaluate computes f(x)
func (e *ExpressionOps) Evaluate(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := e.Compile(params)
	if err != nil {
		return common.FailureFrom(err)
	}
	x, ok := common.GetNumber(params, "x")
	if !ok {
		return common.Failure("x parameter required")
	}
	v, err := fn.Eval(x)
	if err != nil {
		return common.FailureFrom(err)
	}
	return common.Success(map[string]interface{}{"x": x, "value": v})
}

// Functions lists the allow-list
func (e *ExpressionOps) Functions(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return common.Success(map[string]interface{}{
		"variable":  expression.Variable,
		"functions": expression.Builtins(),
		"constants": expression.Constants(),
	})
}
