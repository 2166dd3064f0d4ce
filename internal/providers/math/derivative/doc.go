// Package derivative estimates derivatives of real functions by finite differences.
//
// Five formulas are provided, each backed by a gonum diff/fd stencil:
//   - Forward:    (f(x+h) - f(x)) / h                              O(h)
//   - Backward:   (f(x) - f(x-h)) / h                              O(h)
//   - Central:    (f(x+h) - f(x-h)) / 2h                           O(h²)
//   - FivePoint:  (-f(x+2h) + 8f(x+h) - 8f(x-h) + f(x-2h)) / 12h   O(h⁴)
//   - Second:     (f(x+h) - 2f(x) + f(x-h)) / h²                   O(h²)
//
// EvaluatePoint returns every estimate at one x and fails if any of them fails.
// EvaluateRange samples evenly spaced points and silently drops the ones that
// fail, so a function with a pole still yields a usable series.
//
// Example Usage:
//
//	f := func(x float64) (float64, error) { return x * x, nil }
//	s, err := derivative.EvaluatePoint(f, 3, 1e-5)   // s.Central ≈ 6
//	series, err := derivative.EvaluateRange(f, -2, 2, 50, 1e-5)
package derivative
