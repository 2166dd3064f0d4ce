package derivative

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/expression"
)

func identity(x float64) (float64, error) { return x, nil }

func square(x float64) (float64, error) { return x * x, nil }

func sine(x float64) (float64, error) { return math.Sin(x), nil }

func reciprocal(x float64) (float64, error) {
	if x == 0 {
		return 0, errors.New("division by zero")
	}
	return 1 / x, nil
}

func TestCentralIdentity(t *testing.T) {
	for _, h := range []float64{1e-1, 1e-3, 1e-5} {
		for _, x := range []float64{-3, 0, 2.5} {
			d, err := Central(identity, x, h)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, d, 1e-9, "x=%g h=%g", x, h)
		}
	}
}

func TestSquare(t *testing.T) {
	t.Run("central matches 2x", func(t *testing.T) {
		for _, x := range []float64{-2, 0, 1, 3} {
			d, err := Central(square, x, 1e-4)
			require.NoError(t, err)
			assert.InDelta(t, 2*x, d, 1e-8)
		}
	})

	t.Run("five point matches 2x", func(t *testing.T) {
		for _, x := range []float64{-2, 0, 1, 3} {
			d, err := FivePoint(square, x, 1e-3)
			require.NoError(t, err)
			assert.InDelta(t, 2*x, d, 1e-9)
		}
	})

	t.Run("second derivative is two", func(t *testing.T) {
		for _, x := range []float64{-5, -1, 0, 2, 10} {
			d, err := SecondDerivative(square, x, 1e-3)
			require.NoError(t, err)
			assert.InDelta(t, 2.0, d, 1e-4)
		}
	})

	t.Run("one-sided formulas carry an O(h) bias", func(t *testing.T) {
		h := 1e-3
		fwd, err := Forward(square, 1, h)
		require.NoError(t, err)
		bwd, err := Backward(square, 1, h)
		require.NoError(t, err)
		assert.InDelta(t, 2+h, fwd, 1e-9)
		assert.InDelta(t, 2-h, bwd, 1e-9)
	})
}

func TestConvergenceOrder(t *testing.T) {
	x, want := 1.0, math.Cos(1)

	errAt := func(m Method, h float64) float64 {
		d, err := Estimate(m, sine, x, h)
		require.NoError(t, err)
		return math.Abs(d - want)
	}

	t.Run("central is second order", func(t *testing.T) {
		ratio := errAt(MethodCentral, 1e-2) / errAt(MethodCentral, 5e-3)
		assert.InDelta(t, 4.0, ratio, 0.1)
	})

	t.Run("forward is first order", func(t *testing.T) {
		ratio := errAt(MethodForward, 1e-2) / errAt(MethodForward, 5e-3)
		assert.InDelta(t, 2.0, ratio, 0.1)
	})

	t.Run("five point beats central at the same step", func(t *testing.T) {
		h := 1e-2
		assert.Less(t, errAt(MethodFivePoint, h), errAt(MethodCentral, h)/100)
	})
}

func TestStepValidation(t *testing.T) {
	for _, h := range []float64{0, -1e-5, math.NaN(), math.Inf(1)} {
		_, err := Central(square, 1, h)
		assert.ErrorIs(t, err, ErrInvalidStep, "h=%g", h)

		_, err = EvaluatePoint(square, 1, h)
		assert.ErrorIs(t, err, ErrInvalidStep)

		_, err = EvaluateRange(square, 0, 1, 3, h)
		assert.ErrorIs(t, err, ErrInvalidStep)
	}
}

func TestFormulaPropagatesFailure(t *testing.T) {
	limited := func(x float64) (float64, error) {
		if x > 1 {
			return 0, errors.New("outside domain")
		}
		return x, nil
	}

	_, err := Forward(limited, 1, 0.1)
	assert.ErrorIs(t, err, ErrEvaluation)

	d, err := Backward(limited, 1, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-12)

	overflow := func(x float64) (float64, error) { return math.Inf(1), nil }
	_, err = Central(overflow, 0, 1e-3)
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestEvaluatePoint(t *testing.T) {
	t.Run("full sample", func(t *testing.T) {
		s, err := EvaluatePoint(square, 3, 1e-4)
		require.NoError(t, err)

		assert.Equal(t, 3.0, s.X)
		assert.Equal(t, 9.0, s.Fx)
		assert.InDelta(t, 6.0, s.Forward, 1e-3)
		assert.InDelta(t, 6.0, s.Backward, 1e-3)
		assert.InDelta(t, 6.0, s.Central, 1e-6)
		assert.InDelta(t, 6.0, s.FivePoint, 1e-6)
		assert.InDelta(t, 2.0, s.Second, 1e-2)

		vals := s.Values()
		require.Len(t, vals, len(Columns))
		assert.Equal(t, s.X, vals[0])
		assert.Equal(t, s.Second, vals[6])
	})

	t.Run("failure at the point is reported", func(t *testing.T) {
		_, err := EvaluatePoint(reciprocal, 0, 1e-5)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEvaluation)
	})

	t.Run("sandbox evaluation errors stay visible", func(t *testing.T) {
		fn, err := expression.Compile("1 / x")
		require.NoError(t, err)

		_, err = EvaluatePoint(fn.Eval, 0, 1e-5)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEvaluation)
		assert.True(t, expression.IsEvaluation(err))
	})
}

func TestEvaluateRange(t *testing.T) {
	t.Run("grid is exact", func(t *testing.T) {
		series, err := EvaluateRange(identity, 0, 10, 11, 1e-5)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, series.Xs())
	})

	t.Run("failing points are skipped", func(t *testing.T) {
		fn, err := expression.Compile("1 / x")
		require.NoError(t, err)

		series, err := EvaluateRange(fn.Eval, -1, 1, 5, 1e-5)
		require.NoError(t, err)
		assert.Equal(t, []float64{-1, -0.5, 0.5, 1}, series.Xs())
		for _, s := range series {
			assert.InDelta(t, -1/(s.X*s.X), s.Central, 1e-4)
		}
	})

	t.Run("all points failing yields an empty series", func(t *testing.T) {
		never := func(float64) (float64, error) { return 0, errors.New("nope") }
		series, err := EvaluateRange(never, 0, 1, 10, 1e-5)
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := EvaluateRange(square, 0, 1, 1, 1e-5)
		assert.ErrorIs(t, err, ErrInvalidRange)

		_, err = EvaluateRange(square, math.Inf(-1), 1, 10, 1e-5)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("reversed bounds sample the same points in ascending order", func(t *testing.T) {
		series, err := EvaluateRange(square, 10, 0, 11, 1e-5)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, series.Xs())

		forward, err := EvaluateRange(square, 0, 10, 11, 1e-5)
		require.NoError(t, err)
		assert.Equal(t, forward, series)
	})

	t.Run("degenerate interval repeats the point", func(t *testing.T) {
		series, err := EvaluateRange(square, 2, 2, 3, 1e-5)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 2, 2}, series.Xs())
	})
}

type countingObserver struct {
	evaluated atomic.Int64
	skipped   atomic.Int64
}

func (c *countingObserver) PointEvaluated() { c.evaluated.Add(1) }
func (c *countingObserver) PointSkipped()   { c.skipped.Add(1) }

func TestEngineParallelMatchesSequential(t *testing.T) {
	r := Range{Min: -5, Max: 5, Points: 101}

	seq, err := NewEngine().Range(context.Background(), reciprocal, r, 1e-5)
	require.NoError(t, err)

	obs := &countingObserver{}
	par, err := NewEngine(WithWorkers(4), WithParallelThreshold(2), WithObserver(obs)).
		Range(context.Background(), reciprocal, r, 1e-5)
	require.NoError(t, err)

	assert.Equal(t, seq, par)
	assert.Len(t, par, 100)
	assert.EqualValues(t, 100, obs.evaluated.Load())
	assert.EqualValues(t, 1, obs.skipped.Load())
}

func TestEngineLimits(t *testing.T) {
	e := NewEngine(WithMaxPoints(10))

	_, err := e.Range(context.Background(), square, Range{Min: 0, Max: 1, Points: 11}, 1e-5)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = e.Points(context.Background(), square, make([]float64, 11), 1e-5)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestEngineCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Range(ctx, square, Range{Min: 0, Max: 1, Points: 10}, 1e-5)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewEngine(WithWorkers(2), WithParallelThreshold(2)).
		Range(ctx, square, Range{Min: 0, Max: 1, Points: 10}, 1e-5)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewEngine().Point(ctx, square, 1, 1e-5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnginePoints(t *testing.T) {
	e := NewEngine()

	series, err := e.Points(context.Background(), reciprocal, []float64{2, 0, -1, 0.5}, 1e-5)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0.5, 2}, series.Xs())

	_, err = e.Points(context.Background(), reciprocal, nil, 1e-5)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = e.Points(context.Background(), reciprocal, []float64{1, math.NaN()}, 1e-5)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParsePoints(t *testing.T) {
	xs, err := ParsePoints(" 0, 1.5 ,-2,, 1e-3 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1.5, -2, 1e-3}, xs)

	_, err = ParsePoints("1, two")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParsePoints(" , ")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParsePoints("inf")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"forward":    MethodForward,
		"Backward":   MethodBackward,
		" central ":  MethodCentral,
		"five-point": MethodFivePoint,
		"fivepoint":  MethodFivePoint,
		"second":     MethodSecond,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseMethod("simpson")
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = Estimate(Method("simpson"), square, 1, 1e-3)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestMethodMetadata(t *testing.T) {
	assert.Len(t, Methods(), 5)
	assert.Equal(t, 2, MethodSecond.Order())
	assert.Equal(t, 1, MethodFivePoint.Order())
	assert.Equal(t, 1e-3, MethodFivePoint.DefaultStep())
	assert.Equal(t, 1e-4, MethodSecond.DefaultStep())
	assert.Equal(t, 1e-5, MethodCentral.DefaultStep())
	assert.Equal(t, "O(h^4)", MethodFivePoint.Accuracy())
}

func TestSeries(t *testing.T) {
	series, err := EvaluateRange(sine, 0, 1, 5, 1e-3)
	require.NoError(t, err)

	col, err := series.Column("central")
	require.NoError(t, err)
	require.Len(t, col, 5)
	assert.InDelta(t, 1.0, col[0], 1e-6)

	_, err = series.Column("nope")
	assert.Error(t, err)

	agr := series.Agreement()
	assert.Greater(t, agr.MaxSpread, 0.0)
	assert.LessOrEqual(t, agr.MeanSpread, agr.MaxSpread)
	assert.Contains(t, series.Xs(), agr.WorstX)

	assert.Equal(t, Agreement{}, Series(nil).Agreement())
}
