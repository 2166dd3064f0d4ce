package expression

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

var allowedUnary = map[token.Token]bool{
	token.PLUS:  true,
	token.MINUS: true,
	token.NOT:   true,
}

var allowedBinary = map[token.Token]bool{
	token.PLUS:             true,
	token.MINUS:            true,
	token.MULTIPLY:         true,
	token.SLASH:            true,
	token.REMAINDER:        true,
	token.EXPONENT:         true,
	token.LESS:             true,
	token.LESS_OR_EQUAL:    true,
	token.GREATER:          true,
	token.GREATER_OR_EQUAL: true,
	token.EQUAL:            true,
	token.NOT_EQUAL:        true,
	token.STRICT_EQUAL:     true,
	token.STRICT_NOT_EQUAL: true,
	token.LOGICAL_AND:      true,
	token.LOGICAL_OR:       true,
}

// comparison operators cannot be chained: a < b < c would compare a 0/1
// result against c rather than test both bounds.
var comparison = map[token.Token]bool{
	token.LESS:             true,
	token.LESS_OR_EQUAL:    true,
	token.GREATER:          true,
	token.GREATER_OR_EQUAL: true,
	token.EQUAL:            true,
	token.NOT_EQUAL:        true,
	token.STRICT_EQUAL:     true,
	token.STRICT_NOT_EQUAL: true,
}

func isComparison(e ast.Expression) bool {
	b, ok := e.(*ast.BinaryExpression)
	return ok && comparison[b.Operator]
}

// validator walks a parsed expression and rejects anything outside the allow-list.
// It never evaluates.
type validator struct {
	env      *Environment
	maxDepth int
}

func (v *validator) validate(e ast.Expression, depth int) error {
	if depth > v.maxDepth {
		return unsafeErr(int(e.Idx0()), "nesting deeper than %d levels", v.maxDepth)
	}

	switch n := e.(type) {
	case *ast.NumberLiteral:
		switch val := n.Value.(type) {
		case int64:
			return nil
		case float64:
			if gomath.IsInf(val, 0) || gomath.IsNaN(val) {
				return syntaxErr(int(n.Idx), "number literal %s is out of range", n.Literal)
			}
			return nil
		default:
			return unsafeErr(int(n.Idx), "numeric literal %s is not a real number", n.Literal)
		}

	case *ast.BooleanLiteral:
		return nil

	case *ast.Identifier:
		name := n.Name.String()
		if name == Variable {
			return nil
		}
		if _, ok := v.env.Constant(name); ok {
			return nil
		}
		if _, ok := v.env.Function(name); ok {
			return syntaxErr(int(n.Idx), "function %s must be called", name)
		}
		return unsafeErr(int(n.Idx), "identifier %q is not allowed", name)

	case *ast.CallExpression:
		id, ok := n.Callee.(*ast.Identifier)
		if !ok {
			return unsafeErr(int(n.Callee.Idx0()), "call target %s is not allowed", nodeKind(n.Callee))
		}
		name := id.Name.String()
		fn, ok := v.env.Function(name)
		if !ok {
			if _, isConst := v.env.Constant(name); isConst || name == Variable {
				return syntaxErr(int(id.Idx), "%s is not callable", name)
			}
			return unsafeErr(int(id.Idx), "function %q is not allowed", name)
		}
		for _, arg := range n.ArgumentList {
			if err := v.validate(arg, depth+1); err != nil {
				return err
			}
		}
		if !fn.Accepts(len(n.ArgumentList)) {
			return syntaxErr(int(id.Idx), "%s takes %s, got %d", name, arity(fn), len(n.ArgumentList))
		}
		return nil

	case *ast.UnaryExpression:
		if n.Postfix || !allowedUnary[n.Operator] {
			return unsafeErr(int(n.Idx0()), "unary operator %q is not allowed", n.Operator.String())
		}
		return v.validate(n.Operand, depth+1)

	case *ast.BinaryExpression:
		if !allowedBinary[n.Operator] {
			return unsafeErr(int(n.Left.Idx1()), "operator %q is not allowed", n.Operator.String())
		}
		if comparison[n.Operator] && (isComparison(n.Left) || isComparison(n.Right)) {
			return syntaxErr(int(n.Left.Idx1()), "chained comparison; use &&")
		}
		if err := v.validate(n.Left, depth+1); err != nil {
			return err
		}
		return v.validate(n.Right, depth+1)
	}

	return unsafeErr(int(e.Idx0()), "%s is not allowed", nodeKind(e))
}

func arity(b *Builtin) string {
	switch {
	case b.MaxArgs == Variadic:
		return fmt.Sprintf("at least %d argument(s)", b.MinArgs)
	case b.MinArgs == b.MaxArgs:
		return fmt.Sprintf("%d argument(s)", b.MinArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", b.MinArgs, b.MaxArgs)
	}
}

// nodeKind names a syntax node for error messages.
func nodeKind(n ast.Node) string {
	switch n.(type) {
	case *ast.DotExpression, *ast.PrivateDotExpression:
		return "member access"
	case *ast.BracketExpression:
		return "subscript"
	case *ast.ArrayLiteral:
		return "array literal"
	case *ast.ObjectLiteral:
		return "object literal"
	case *ast.StringLiteral, *ast.TemplateLiteral:
		return "string literal"
	case *ast.RegExpLiteral:
		return "regular expression"
	case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
		return "function literal"
	case *ast.AssignExpression:
		return "assignment"
	case *ast.ConditionalExpression:
		return "conditional expression"
	case *ast.SequenceExpression:
		return "comma expression"
	case *ast.NewExpression:
		return "new expression"
	case *ast.ThisExpression:
		return "this"
	case *ast.NullLiteral:
		return "null"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
