package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// Functions lists the functions and constants formulas may use
func (h *Handlers) Functions(c *gin.Context) {
	h.respond(c, "math.expression.functions", map[string]interface{}{})
}

// Validate reports whether a formula compiles
func (h *Handlers) Validate(c *gin.Context) {
	var req types.ExpressionRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c, "math.expression.validate", map[string]interface{}{
		"expression": req.Expression,
	})
}

// Evaluate computes f(x)
func (h *Handlers) Evaluate(c *gin.Context) {
	var req types.ExpressionRequest
	if !bind(c, &req) {
		return
	}
	params := map[string]interface{}{"expression": req.Expression}
	if req.X != nil {
		params["x"] = *req.X
	}
	h.respond(c, "math.expression.evaluate", params)
}
