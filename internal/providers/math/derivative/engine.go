package derivative

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultParallelThreshold is the point count at which Range fans out to workers.
	DefaultParallelThreshold = 2048
	// DefaultMaxPoints caps a single Range or Points call.
	DefaultMaxPoints = 100_000
)

// Observer receives per-point outcomes. Implementations must be safe for concurrent use.
type Observer interface {
	PointEvaluated()
	PointSkipped()
}

// Range is an evenly spaced sampling of [Min, Max] with Points samples.
type Range struct {
	Min    float64 `json:"x_min"`
	Max    float64 `json:"x_max"`
	Points int     `json:"points"`
}

// Validate checks the bounds and point count.
func (r Range) Validate() error {
	if r.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidRange, r.Points)
	}
	if !isFinite(r.Min) || !isFinite(r.Max) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	}
	return nil
}

// Ascending returns r with Min <= Max. Reversed bounds sample the same points.
func (r Range) Ascending() Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// Xs returns x_i = Min + i*(Max-Min)/(Points-1) for i in [0, Points).
func (r Range) Xs() []float64 {
	return floats.Span(make([]float64, r.Points), r.Min, r.Max)
}

// Engine evaluates derivative samples over sets of points.
type Engine struct {
	workers           int
	parallelThreshold int
	maxPoints         int
	logger            *zap.Logger
	observer          Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the worker count for parallel evaluation. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithParallelThreshold sets the point count at which evaluation becomes parallel.
func WithParallelThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelThreshold = n
		}
	}
}

// WithMaxPoints caps the number of points one call may request.
func WithMaxPoints(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPoints = n
		}
	}
}

// WithLogger sets the logger used for skipped points.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers an Observer for per-point outcomes.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine creates an engine. Without options it evaluates sequentially below
// DefaultParallelThreshold points and logs nothing.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
		maxPoints:         DefaultMaxPoints,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// EvaluatePoint computes f(x) and every estimate at x. Any failure is returned
// as a single error for the point.
func EvaluatePoint(f Func, x, h float64) (Sample, error) {
	return defaultEngine.Point(context.Background(), f, x, h)
}

// EvaluateRange samples n evenly spaced points in [xMin, xMax]. Points where
// evaluation fails are omitted. The error reports invalid arguments only; an
// empty series is a valid result.
func EvaluateRange(f Func, xMin, xMax float64, n int, h float64) (Series, error) {
	return defaultEngine.Range(context.Background(), f, Range{Min: xMin, Max: xMax, Points: n}, h)
}

// Point computes the full sample at x.
func (e *Engine) Point(ctx context.Context, f Func, x, h float64) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	if err := checkStep(h); err != nil {
		return Sample{}, err
	}
	if !isFinite(x) {
		return Sample{}, fmt.Errorf("%w: x = %g is not finite", ErrEvaluation, x)
	}
	return sampleAt(f, x, h)
}

func sampleAt(f Func, x, h float64) (Sample, error) {
	fx, err := f(x)
	if err != nil {
		return Sample{}, fmt.Errorf("%w at x=%g: %w", ErrEvaluation, x, err)
	}
	if !isFinite(fx) {
		return Sample{}, fmt.Errorf("%w at x=%g: f(x) is not finite", ErrEvaluation, x)
	}

	s := Sample{X: x, Fx: fx}
	targets := []*float64{&s.Forward, &s.Backward, &s.Central, &s.FivePoint, &s.Second}
	for i, m := range methods {
		v, err := estimate(m.Formula(), f, x, h, &fx)
		if err != nil {
			return Sample{}, err
		}
		*targets[i] = v
	}
	return s, nil
}

// Range evaluates every point of r, skipping the ones that fail.
func (e *Engine) Range(ctx context.Context, f Func, r Range, h float64) (Series, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r = r.Ascending()
	if r.Points > e.maxPoints {
		return nil, fmt.Errorf("%w: %d points exceeds limit of %d", ErrInvalidRange, r.Points, e.maxPoints)
	}
	if err := checkStep(h); err != nil {
		return nil, err
	}
	return e.evaluate(ctx, f, r.Xs(), h)
}

// Points evaluates an explicit list of x values with the same skip semantics as
// Range. The result is in ascending x regardless of input order.
func (e *Engine) Points(ctx context.Context, f Func, xs []float64, h float64) (Series, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no points given", ErrInvalidRange)
	}
	if len(xs) > e.maxPoints {
		return nil, fmt.Errorf("%w: %d points exceeds limit of %d", ErrInvalidRange, len(xs), e.maxPoints)
	}
	for _, x := range xs {
		if !isFinite(x) {
			return nil, fmt.Errorf("%w: point %g is not finite", ErrInvalidRange, x)
		}
	}
	if err := checkStep(h); err != nil {
		return nil, err
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return e.evaluate(ctx, f, sorted, h)
}

func (e *Engine) evaluate(ctx context.Context, f Func, xs []float64, h float64) (Series, error) {
	samples := make([]Sample, len(xs))
	ok := make([]bool, len(xs))

	if len(xs) >= e.parallelThreshold && e.workers > 1 {
		if err := e.evaluateParallel(ctx, f, xs, h, samples, ok); err != nil {
			return nil, err
		}
	} else {
		for i, x := range xs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			samples[i], ok[i] = e.evaluateOne(f, x, h)
		}
	}

	series := make(Series, 0, len(xs))
	for i, s := range samples {
		if ok[i] {
			series = append(series, s)
		}
	}
	return series, nil
}

func (e *Engine) evaluateParallel(ctx context.Context, f Func, xs []float64, h float64, samples []Sample, ok []bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	chunk := (len(xs) + e.workers - 1) / e.workers
	for start := 0; start < len(xs); start += chunk {
		start, end := start, min(start+chunk, len(xs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				samples[i], ok[i] = e.evaluateOne(f, xs[i], h)
			}
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) evaluateOne(f Func, x, h float64) (Sample, bool) {
	s, err := sampleAt(f, x, h)
	if err != nil {
		e.logger.Debug("Skipping point", zap.Float64("x", x), zap.Error(err))
		if e.observer != nil {
			e.observer.PointSkipped()
		}
		return Sample{}, false
	}
	if e.observer != nil {
		e.observer.PointEvaluated()
	}
	return s, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
