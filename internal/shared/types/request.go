package types

// ExecuteRequest represents a registry tool execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
}

// ExpressionRequest carries a formula, and optionally a point to evaluate it at
type ExpressionRequest struct {
	Expression string   `json:"expression" binding:"required"`
	X          *float64 `json:"x,omitempty"`
}

// PointRequest asks for derivative estimates at a single x
type PointRequest struct {
	Expression string   `json:"expression" binding:"required"`
	X          *float64 `json:"x" binding:"required"`
	H          *float64 `json:"h,omitempty"`
	Method     string   `json:"method,omitempty"` // empty means every method
}

// RangeRequest asks for derivative estimates over evenly spaced points
type RangeRequest struct {
	Expression string   `json:"expression" binding:"required"`
	XMin       *float64 `json:"x_min" binding:"required"`
	XMax       *float64 `json:"x_max" binding:"required"`
	Points     int      `json:"points,omitempty"`
	H          *float64 `json:"h,omitempty"`
}

// PointsRequest asks for derivative estimates at an explicit list of x values
type PointsRequest struct {
	Expression string    `json:"expression" binding:"required"`
	Points     []float64 `json:"points" binding:"required"`
	H          *float64  `json:"h,omitempty"`
}
