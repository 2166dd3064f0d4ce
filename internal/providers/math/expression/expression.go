package expression

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"
	"unicode/utf8"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
)

const (
	// DefaultMaxLength bounds the source size in bytes.
	DefaultMaxLength = 1024
	// DefaultMaxDepth bounds syntax tree nesting.
	DefaultMaxDepth = 64
)

type options struct {
	maxLength int
	maxDepth  int
}

// Option configures Compile.
type Option func(*options)

// WithMaxLength sets the largest accepted source length in bytes.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// WithMaxDepth sets the deepest accepted nesting of the syntax tree.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// Function is a compiled formula f(x). It holds no mutable state and is safe
// for concurrent use.
type Function struct {
	source string
	root   evaluator
}

// Compile parses, validates and compiles src into a Function.
//
// It returns an UnsafeExpressionError when src uses anything outside the
// allow-list and an ExpressionSyntaxError when src is not a single expression.
// Nothing in src is evaluated before validation has passed.
func Compile(src string, opts ...Option) (*Function, error) {
	o := options{maxLength: DefaultMaxLength, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	expr, inserted, err := parse(src, o.maxLength)
	if err != nil {
		return nil, relocate(err, inserted)
	}

	env := DefaultEnvironment()
	v := &validator{env: env, maxDepth: o.maxDepth}
	if err := v.validate(expr, 0); err != nil {
		return nil, relocate(err, inserted)
	}

	c := &compiler{env: env}
	root, err := c.compile(expr)
	if err != nil {
		return nil, relocate(err, inserted)
	}

	return &Function{source: strings.TrimSpace(src), root: root}, nil
}

// MustCompile is like Compile but panics on error. Use it for trusted, static formulas.
func MustCompile(src string, opts ...Option) *Function {
	fn, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return fn
}

// parse returns the single expression in src. When unary operands of ** had
// to be grouped, inserted holds the offsets of the added parentheses.
func parse(src string, maxLength int) (expr ast.Expression, inserted []int, err error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil, syntaxErr(0, "empty expression")
	}
	if len(src) > maxLength {
		return nil, nil, syntaxErr(0, "expression is %d bytes, limit is %d", len(src), maxLength)
	}
	if !utf8.ValidString(src) {
		return nil, nil, syntaxErr(0, "expression is not valid UTF-8")
	}

	program, err := parser.ParseFile(nil, "", src, 0, parser.WithDisableSourceMaps)
	if err != nil {
		text, ins, ok := groupPowers(src)
		if !ok {
			return nil, nil, parseError(src, err)
		}
		grouped, gerr := parser.ParseFile(nil, "", text, 0, parser.WithDisableSourceMaps)
		if gerr != nil {
			return nil, nil, parseError(src, err)
		}
		program, inserted = grouped, ins
	}

	if len(program.Body) != 1 {
		return nil, inserted, syntaxErr(0, "not a single expression")
	}
	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, inserted, syntaxErr(int(program.Body[0].Idx0()), "not a single expression")
	}
	return stmt.Expression, inserted, nil
}

func parseError(src string, err error) error {
	var list parser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return &Error{Kind: ErrExpressionSyntax, Msg: list[0].Message, Pos: offsetOf(src, list[0].Position)}
	}
	return &Error{Kind: ErrExpressionSyntax, Err: err}
}

// offsetOf turns a parser line and column back into a 1-based byte offset.
func offsetOf(src string, p file.Position) int {
	if p.Line < 1 || p.Column < 1 {
		return 0
	}
	start := 0
	for line := 1; line < p.Line; line++ {
		n := nextLineStart(src[start:])
		if n < 0 {
			return 0
		}
		start += n
	}
	return start + p.Column
}

// nextLineStart uses the parser's line terminators.
func nextLineStart(s string) int {
	for i, r := range s {
		switch r {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				return i + 2
			}
			return i + 1
		case '\n':
			return i + 1
		case '\u2028', '\u2029':
			return i + 3
		}
	}
	return -1
}

func relocate(err error, inserted []int) error {
	var e *Error
	if len(inserted) > 0 && errors.As(err, &e) {
		e.Pos = sourcePos(e.Pos, inserted)
	}
	return err
}

// Eval evaluates the formula at x.
//
// Failures are returned as an EvaluationError: division by zero, arguments
// outside a function's domain, and results that overflow to a non-finite value.
func (f *Function) Eval(x float64) (v float64, err error) {
	if gomath.IsNaN(x) || gomath.IsInf(x, 0) {
		return 0, evalErr("x = %g is not finite", x)
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = 0, evalErr("%v", r)
		}
	}()
	return f.root(x)
}

// Source returns the formula text the function was compiled from.
func (f *Function) Source() string { return f.source }

func (f *Function) String() string { return fmt.Sprintf("f(x) = %s", f.source) }
