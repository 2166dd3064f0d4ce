package expression

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category. Kinds are sentinels matched with errors.Is.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

var (
	// ErrUnsafeExpression reports an identifier or construct outside the allow-list.
	ErrUnsafeExpression Kind = kind{s: "unsafe expression"}
	// ErrExpressionSyntax reports input that is not a single well-formed expression.
	ErrExpressionSyntax Kind = kind{s: "expression syntax error"}
	// ErrEvaluation reports a failure while evaluating a compiled expression.
	ErrEvaluation Kind = kind{s: "evaluation error"}
)

// Error carries a Kind plus the detail needed to point at the problem.
//
// Pos is the 1-based byte offset into the source, or 0 when unknown.
type Error struct {
	Kind Kind
	Msg  string
	Pos  int
	Err  error
}

// UnsafeExpressionError, ExpressionSyntaxError and EvaluationError are the three
// shapes an *Error takes. They share one type and differ by Kind.
type (
	UnsafeExpressionError = Error
	ExpressionSyntaxError = Error
	EvaluationError       = Error
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Pos > 0 {
		msg += fmt.Sprintf(" (at offset %d)", e.Pos)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind sentinel or anything in the wrapped chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func unsafeErr(pos int, format string, args ...any) *Error {
	return &Error{Kind: ErrUnsafeExpression, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func syntaxErr(pos int, format string, args ...any) *Error {
	return &Error{Kind: ErrExpressionSyntax, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func evalErr(format string, args ...any) *Error {
	return &Error{Kind: ErrEvaluation, Msg: fmt.Sprintf(format, args...)}
}

// IsUnsafe reports whether err is an UnsafeExpressionError.
func IsUnsafe(err error) bool { return errors.Is(err, ErrUnsafeExpression) }

// IsSyntax reports whether err is an ExpressionSyntaxError.
func IsSyntax(err error) bool { return errors.Is(err, ErrExpressionSyntax) }

// IsEvaluation reports whether err is an EvaluationError.
func IsEvaluation(err error) bool { return errors.Is(err, ErrEvaluation) }

// KindName returns a short label for the error's kind: "unsafe", "syntax",
// "evaluation", or "" for errors from outside this package.
func KindName(err error) string {
	switch {
	case IsUnsafe(err):
		return "unsafe"
	case IsSyntax(err):
		return "syntax"
	case IsEvaluation(err):
		return "evaluation"
	}
	return ""
}
