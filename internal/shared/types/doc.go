// Package types provides shared data structures for the numderiv backend.
//
// Core Types:
//   - Service, Tool, Parameter: tool registry metadata
//   - Context: Execution context for tool calls
//   - Result: Standard tool result
//
// Request Types:
//   - ExecuteRequest: Registry tool execution
//   - PointRequest, RangeRequest, PointsRequest: Derivative evaluation
//   - ExpressionRequest: Expression validation and evaluation
//
// Example Usage:
//
//	req := types.RangeRequest{
//	    Expression: "sin(x)",
//	    XMin:       ptr(-2.0),
//	    XMax:       ptr(2.0),
//	    Points:     50,
//	}
package types
