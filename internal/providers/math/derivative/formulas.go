package derivative

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
)

// Func is a real function that may fail at some inputs.
type Func func(x float64) (float64, error)

// Method names a finite-difference formula.
type Method string

const (
	MethodForward   Method = "forward"
	MethodBackward  Method = "backward"
	MethodCentral   Method = "central"
	MethodFivePoint Method = "five_point"
	MethodSecond    Method = "second"
)

// fivePoint is the fourth-order centered first-derivative stencil.
var fivePoint = fd.Formula{
	Stencil: []fd.Point{
		{Loc: -2, Coeff: 1.0 / 12},
		{Loc: -1, Coeff: -8.0 / 12},
		{Loc: 1, Coeff: 8.0 / 12},
		{Loc: 2, Coeff: -1.0 / 12},
	},
	Derivative: 1,
	Step:       1e-3,
}

var methods = []Method{MethodForward, MethodBackward, MethodCentral, MethodFivePoint, MethodSecond}

// Methods lists every method in sample column order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ParseMethod resolves a method name. Hyphens and case are ignored.
func ParseMethod(s string) (Method, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "fivepoint", "5point", "five":
		return MethodFivePoint, nil
	case "second_derivative", "2nd":
		return MethodSecond, nil
	}
	for _, m := range methods {
		if string(m) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Formula returns the gonum stencil for m.
func (m Method) Formula() fd.Formula {
	switch m {
	case MethodForward:
		return fd.Forward
	case MethodBackward:
		return fd.Backward
	case MethodCentral:
		return fd.Central
	case MethodFivePoint:
		return fivePoint
	case MethodSecond:
		return fd.Central2nd
	}
	return fd.Formula{}
}

// DefaultStep is the typical h for m. The engine never applies it implicitly.
func (m Method) DefaultStep() float64 {
	switch m {
	case MethodFivePoint:
		return 1e-3
	case MethodSecond:
		return 1e-4
	}
	return 1e-5
}

// Order is the derivative order m estimates.
func (m Method) Order() int { return m.Formula().Derivative }

// Accuracy describes the truncation error order of m.
func (m Method) Accuracy() string {
	switch m {
	case MethodForward, MethodBackward:
		return "O(h)"
	case MethodFivePoint:
		return "O(h^4)"
	}
	return "O(h^2)"
}

// Forward estimates f'(x) as (f(x+h) - f(x)) / h.
func Forward(f Func, x, h float64) (float64, error) {
	return Estimate(MethodForward, f, x, h)
}

// Backward estimates f'(x) as (f(x) - f(x-h)) / h.
func Backward(f Func, x, h float64) (float64, error) {
	return Estimate(MethodBackward, f, x, h)
}

// Central estimates f'(x) as (f(x+h) - f(x-h)) / 2h.
func Central(f Func, x, h float64) (float64, error) {
	return Estimate(MethodCentral, f, x, h)
}

// FivePoint estimates f'(x) with the five-point stencil.
func FivePoint(f Func, x, h float64) (float64, error) {
	return Estimate(MethodFivePoint, f, x, h)
}

// SecondDerivative estimates f''(x) as (f(x+h) - 2f(x) + f(x-h)) / h².
func SecondDerivative(f Func, x, h float64) (float64, error) {
	return Estimate(MethodSecond, f, x, h)
}

// Estimate evaluates method m at x with step h.
func Estimate(m Method, f Func, x, h float64) (float64, error) {
	formula := m.Formula()
	if formula.Stencil == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, string(m))
	}
	if err := checkStep(h); err != nil {
		return 0, err
	}
	return estimate(formula, f, x, h, nil)
}

func checkStep(h float64) error {
	if !(h > 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, h)
	}
	return nil
}

// sampler adapts a fallible Func to the infallible signature fd expects. After
// the first failure it stops calling f and reports NaN.
type sampler struct {
	f   Func
	err error
}

func (p *sampler) eval(x float64) float64 {
	if p.err != nil {
		return math.NaN()
	}
	v, err := p.f(x)
	if err != nil {
		p.err = fmt.Errorf("f(%g): %w", x, err)
		return math.NaN()
	}
	return v
}

func estimate(formula fd.Formula, f Func, x, h float64, origin *float64) (float64, error) {
	p := &sampler{f: f}
	settings := &fd.Settings{Formula: formula, Step: h}
	if origin != nil {
		settings.OriginKnown = true
		settings.OriginValue = *origin
	}

	d := fd.Derivative(p.eval, x, settings)
	if p.err != nil {
		return 0, fmt.Errorf("%w at x=%g: %w", ErrEvaluation, x, p.err)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w at x=%g: estimate is not finite", ErrEvaluation, x)
	}
	return d, nil
}
