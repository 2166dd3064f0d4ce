// Package expression compiles untrusted single-variable formulas into safe Go functions.
//
// A formula is one ECMAScript-style expression in the free variable x. It is
// parsed with the goja parser into a syntax tree, checked against a closed
// allow-list, and compiled into a tree of Go closures. Nothing is ever handed to
// a script engine, so the formula can only reach what the Environment exposes.
//
// Compilation runs in three stages:
//   - Parse: the input must be exactly one expression (ExpressionSyntaxError otherwise)
//   - Validate: every node kind and identifier is checked before anything runs (UnsafeExpressionError)
//   - Compile: names resolve through the Environment a second time, independent of validation
//
// Grammar:
//   - Numbers: 2, 0.5, 1e-3, 0x1F
//   - Arithmetic: + - * / % ** (** is exponentiation, % is floored modulo)
//   - Unary: + - ! (binds looser than **, so -x**2 is -(x**2))
//   - Comparison: < <= > >= == != === !== (yield 1 or 0, not chainable: write 0 < x && x < 1)
//   - Boolean: && || (short-circuit, yield an operand), true, false
//   - Calls to allow-listed functions: sin(x), log(x, 2), max(x, 0)
//   - Constants: pi, e, tau
//
// Evaluation failures (division by zero, log of a non-positive number, overflow)
// are returned as EvaluationError values from Function.Eval.
//
// Example Usage:
//
//	fn, err := expression.Compile("sin(x) + x**2")
//	if err != nil {
//	    return err
//	}
//	y, err := fn.Eval(1.5)
package expression
