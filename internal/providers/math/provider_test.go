package math

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

func assertSuccess(t *testing.T, result *types.Result) {
	t.Helper()
	require.NotNil(t, result)
	if !result.Success {
		msg := ""
		if result.Error != nil {
			msg = *result.Error
		}
		t.Fatalf("expected success, got error: %s", msg)
	}
}

func assertKind(t *testing.T, result *types.Result, kind string) {
	t.Helper()
	require.NotNil(t, result)
	assert.False(t, result.Success)
	require.NotNil(t, result.Kind)
	assert.Equal(t, kind, *result.Kind)
}

func TestMathProvider(t *testing.T) {
	provider := NewProvider(nil, common.DefaultSettings())
	ctx := context.Background()

	t.Run("Definition", func(t *testing.T) {
		def := provider.Definition()
		assert.Equal(t, "math", def.ID)
		assert.Equal(t, types.CategoryMath, def.Category)

		ids := make(map[string]bool)
		for _, tool := range def.Tools {
			ids[tool.ID] = true
		}
		for _, id := range []string{
			"math.derivative.point", "math.derivative.method", "math.derivative.range",
			"math.derivative.points", "math.derivative.export",
			"math.expression.validate", "math.expression.evaluate", "math.expression.functions",
		} {
			assert.True(t, ids[id], id)
		}
	})

	t.Run("Derivatives", func(t *testing.T) {
		t.Run("Point", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.point", map[string]interface{}{
				"expression": "x ** 2",
				"x":          3.0,
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)

			s, ok := result.Data["sample"].(derivative.Sample)
			require.True(t, ok)
			assert.Equal(t, 3.0, s.X)
			assert.InDelta(t, 9.0, s.Fx, 1e-12)
			assert.InDelta(t, 6.0, s.Central, 1e-6)
			assert.InDelta(t, 6.0, s.FivePoint, 1e-6)
			assert.InDelta(t, 2.0, s.Second, 1e-2)
		})

		t.Run("Point requires x", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.point", map[string]interface{}{
				"expression": "x",
			}, nil)
			require.NoError(t, err)
			assert.False(t, result.Success)
		})

		t.Run("Point at a pole fails", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.point", map[string]interface{}{
				"expression": "1 / x",
				"x":          0.0,
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "evaluation")
		})

		t.Run("Invalid step", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.point", map[string]interface{}{
				"expression": "x",
				"x":          1.0,
				"h":          0.0,
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "invalid_argument")
		})

		t.Run("Method", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.method", map[string]interface{}{
				"expression": "sin(x)",
				"x":          0.0,
				"method":     "central",
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.InDelta(t, 1.0, result.Data["result"], 1e-8)
			assert.Equal(t, "central", result.Data["method"])
			assert.Equal(t, 1, result.Data["order"])
		})

		t.Run("Unknown method", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.method", map[string]interface{}{
				"expression": "x",
				"x":          0.0,
				"method":     "spline",
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "invalid_argument")
		})

		t.Run("Range", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.range", map[string]interface{}{
				"expression": "x ** 2",
				"x_min":      0.0,
				"x_max":      10.0,
				"points":     11.0,
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, 11, result.Data["count"])

			samples := result.Data["samples"].([]derivative.Sample)
			require.Len(t, samples, 11)
			for i, s := range samples {
				assert.Equal(t, float64(i), s.X)
				assert.InDelta(t, 2*s.X, s.Central, 1e-4)
			}
		})

		t.Run("Range skips failing points", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.range", map[string]interface{}{
				"expression": "1 / x",
				"x_min":      -1.0,
				"x_max":      1.0,
				"points":     5,
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, 5, result.Data["requested"])
			assert.Equal(t, 4, result.Data["count"])
		})

		t.Run("Range uses default point count", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.range", map[string]interface{}{
				"expression": "x",
				"x_min":      0.0,
				"x_max":      1.0,
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, common.DefaultSettings().DefaultPoints, result.Data["count"])
		})

		t.Run("Range rejects a single point", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.range", map[string]interface{}{
				"expression": "x",
				"x_min":      0.0,
				"x_max":      1.0,
				"points":     1,
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "invalid_argument")
		})

		t.Run("Range canceled", func(t *testing.T) {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			result, err := provider.Execute(canceled, "math.derivative.range", map[string]interface{}{
				"expression": "x",
				"x_min":      0.0,
				"x_max":      1.0,
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "canceled")
		})

		t.Run("Points", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.points", map[string]interface{}{
				"expression": "x ** 3",
				"points":     "2, 1, 0",
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)

			samples := result.Data["samples"].([]derivative.Sample)
			require.Len(t, samples, 3)
			assert.Equal(t, 0.0, samples[0].X)
			assert.InDelta(t, 12.0, samples[2].FivePoint, 1e-6)
		})

		t.Run("Points as array", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.points", map[string]interface{}{
				"expression": "x",
				"points":     []interface{}{1.0, 2},
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, 2, result.Data["count"])
		})
	})

	t.Run("Expressions", func(t *testing.T) {
		t.Run("Validate accepts", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.expression.validate", map[string]interface{}{
				"expression": "sin(x) + log(x, 2)",
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, true, result.Data["valid"])
		})

		t.Run("Validate rejects unsafe", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.expression.validate", map[string]interface{}{
				"expression": "__import__('os')",
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, false, result.Data["valid"])
			assert.Equal(t, "unsafe", result.Data["kind"])
		})

		t.Run("Evaluate", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.expression.evaluate", map[string]interface{}{
				"expression": "sqrt(x) * pi",
				"x":          4.0,
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.InDelta(t, 2*3.141592653589793, result.Data["value"], 1e-12)
		})

		t.Run("Evaluate unsafe", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.expression.evaluate", map[string]interface{}{
				"expression": "x.constructor",
				"x":          1.0,
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "unsafe")
		})

		t.Run("Evaluate syntax error", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.expression.evaluate", map[string]interface{}{
				"expression": "x +",
				"x":          1.0,
			}, nil)
			require.NoError(t, err)
			assertKind(t, result, "syntax")
		})

		t.Run("Functions", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.expression.functions", nil, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, "x", result.Data["variable"])
			assert.NotEmpty(t, result.Data["functions"])
			assert.NotEmpty(t, result.Data["constants"])
		})
	})

	t.Run("Export", func(t *testing.T) {
		t.Run("CSV", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.export", map[string]interface{}{
				"expression": "x",
				"x_min":      0.0,
				"x_max":      1.0,
				"points":     3,
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, "derivatives.csv", result.Data["filename"])
			assert.Equal(t, "utf-8", result.Data["encoding"])

			content := result.Data["content"].(string)
			lines := strings.Split(strings.TrimSpace(content), "\n")
			assert.Len(t, lines, 4)
			assert.True(t, strings.HasPrefix(lines[0], "x,f(x),"))
		})

		t.Run("Compressed content is base64", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.export", map[string]interface{}{
				"expression":  "x",
				"x_min":       0.0,
				"x_max":       1.0,
				"format":      "json",
				"compression": "gzip",
			}, nil)
			require.NoError(t, err)
			assertSuccess(t, result)
			assert.Equal(t, "derivatives.json.gz", result.Data["filename"])
			assert.Equal(t, "base64", result.Data["encoding"])

			_, err = base64.StdEncoding.DecodeString(result.Data["content"].(string))
			assert.NoError(t, err)
		})

		t.Run("Unknown format", func(t *testing.T) {
			result, err := provider.Execute(ctx, "math.derivative.export", map[string]interface{}{
				"expression": "x",
				"x_min":      0.0,
				"x_max":      1.0,
				"format":     "xlsx",
			}, nil)
			require.NoError(t, err)
			assert.False(t, result.Success)
		})
	})

	t.Run("Unknown tool", func(t *testing.T) {
		result, err := provider.Execute(ctx, "math.add", nil, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
		require.NotNil(t, result.Error)
		assert.Contains(t, *result.Error, "unknown tool")
	})
}
