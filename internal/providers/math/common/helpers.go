package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/expression"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// Settings are the defaults applied when a request leaves a value out.
type Settings struct {
	DefaultStep   float64
	DefaultPoints int
	MaxLength     int
	MaxDepth      int
}

// DefaultSettings mirrors the config defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultStep:   1e-5,
		DefaultPoints: 50,
		MaxLength:     expression.DefaultMaxLength,
		MaxDepth:      expression.DefaultMaxDepth,
	}
}

// MathOps provides common state for math operations
type MathOps struct {
	Engine   *derivative.Engine
	Settings Settings
}

// Compile compiles the "expression" param
func (m *MathOps) Compile(params map[string]interface{}) (*expression.Function, error) {
	src, ok := GetString(params, "expression")
	if !ok {
		return nil, fmt.Errorf("expression parameter required")
	}
	return m.CompileString(src)
}

// CompileString compiles src with the configured limits
func (m *MathOps) CompileString(src string) (*expression.Function, error) {
	return expression.Compile(src,
		expression.WithMaxLength(m.Settings.MaxLength),
		expression.WithMaxDepth(m.Settings.MaxDepth),
	)
}

// Step returns the "h" param, or the default when absent
func (m *MathOps) Step(params map[string]interface{}) (float64, error) {
	if _, present := params["h"]; !present {
		return m.Settings.DefaultStep, nil
	}
	h, ok := GetNumber(params, "h")
	if !ok {
		return 0, fmt.Errorf("h must be a number")
	}
	return h, nil
}

// PointCount returns the "points" param as an int, or the default when absent
func (m *MathOps) PointCount(params map[string]interface{}) (int, error) {
	if _, present := params["points"]; !present {
		return m.Settings.DefaultPoints, nil
	}
	n, ok := GetInt(params, "points")
	if !ok {
		return 0, fmt.Errorf("points must be an integer")
	}
	return n, nil
}

// Success creates a successful result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failed result
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// FailureFrom creates a failed result classified by the error's kind
func FailureFrom(err error) (*types.Result, error) {
	msg := err.Error()
	res := &types.Result{Success: false, Error: &msg}
	if kind := ErrorKind(err); kind != "" {
		res.Kind = &kind
	}
	return res, nil
}

// ErrorKind classifies sandbox and engine errors for API consumers
func ErrorKind(err error) string {
	if kind := expression.KindName(err); kind != "" {
		return kind
	}
	switch {
	case errors.Is(err, derivative.ErrEvaluation):
		return "evaluation"
	case errors.Is(err, derivative.ErrInvalidStep),
		errors.Is(err, derivative.ErrInvalidRange),
		errors.Is(err, derivative.ErrUnknownMethod):
		return "invalid_argument"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return ""
}

// GetNumber extracts float64 from params with validation
func GetNumber(params map[string]interface{}, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// GetInt extracts an integer, accepting whole floats as JSON decoding produces them
func GetInt(params map[string]interface{}, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// GetNumbers extracts an array of numbers, or a comma-separated string of them
func GetNumbers(params map[string]interface{}, key string) ([]float64, bool) {
	switch arr := params[key].(type) {
	case []float64:
		return arr, true
	case string:
		xs, err := derivative.ParsePoints(arr)
		return xs, err == nil
	case []interface{}:
		numbers := make([]float64, 0, len(arr))
		for i := range arr {
			n, ok := GetNumber(map[string]interface{}{"v": arr[i]}, "v")
			if !ok {
				return nil, false
			}
			numbers = append(numbers, n)
		}
		return numbers, true
	}
	return nil, false
}

// GetString extracts a non-blank string from params
func GetString(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key].(string)
	if !ok || strings.TrimSpace(val) == "" {
		return "", false
	}
	return val, true
}
