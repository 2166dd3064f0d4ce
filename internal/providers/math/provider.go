package math

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/operations"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// Provider implements the derivative calculator as a service
type Provider struct {
	derivatives *operations.DerivativeOps
	expressions *operations.ExpressionOps
	exports     *operations.ExportOps
}

// NewProvider creates a math provider backed by engine. A nil engine uses the defaults.
func NewProvider(engine *derivative.Engine, settings common.Settings) *Provider {
	if engine == nil {
		engine = derivative.NewEngine()
	}
	ops := &common.MathOps{Engine: engine, Settings: settings}

	return &Provider{
		derivatives: &operations.DerivativeOps{MathOps: ops},
		expressions: &operations.ExpressionOps{MathOps: ops},
		exports:     &operations.ExportOps{MathOps: ops},
	}
}

// Definition returns service metadata with all module tools
func (m *Provider) Definition() types.Service {
	tools := []types.Tool{}
	tools = append(tools, m.derivatives.GetTools()...)
	tools = append(tools, m.expressions.GetTools()...)
	tools = append(tools, m.exports.GetTools()...)

	return types.Service{
		ID:          "math",
		Name:        "Math Service",
		Description: "Numerical derivatives of user-supplied formulas (finite differences over a sandboxed expression language)",
		Category:    types.CategoryMath,
		Capabilities: []string{
			"derivatives",
			"expressions",
			"export",
		},
		Tools: tools,
	}
}

// Execute routes to appropriate module
func (m *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if params == nil {
		params = map[string]interface{}{}
	}

	switch toolID {
	// Derivatives
	case "math.derivative.point":
		return m.derivatives.Point(ctx, params, appCtx)
	case "math.derivative.method":
		return m.derivatives.Method(ctx, params, appCtx)
	case "math.derivative.range":
		return m.derivatives.Range(ctx, params, appCtx)
	case "math.derivative.points":
		return m.derivatives.Points(ctx, params, appCtx)
	case "math.derivative.export":
		return m.exports.Export(ctx, params, appCtx)

	// Expressions
	case "math.expression.validate":
		return m.expressions.Validate(ctx, params, appCtx)
	case "math.expression.evaluate":
		return m.expressions.Evaluate(ctx, params, appCtx)
	case "math.expression.functions":
		return m.expressions.Functions(ctx, params, appCtx)

	default:
		return common.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
