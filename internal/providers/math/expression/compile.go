package expression

import (
	gomath "math"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

// evaluator is one compiled node. x is the bound variable.
type evaluator func(x float64) (float64, error)

// compiler turns a validated tree into evaluators. Names resolve only through env;
// an unknown name fails compilation even if validation let it through.
type compiler struct {
	env *Environment
}

func (c *compiler) compile(e ast.Expression) (evaluator, error) {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		var v float64
		switch val := n.Value.(type) {
		case int64:
			v = float64(val)
		case float64:
			v = val
		default:
			return nil, unsafeErr(int(n.Idx), "numeric literal %s is not a real number", n.Literal)
		}
		return constant(v), nil

	case *ast.BooleanLiteral:
		return constant(truth(n.Value)), nil

	case *ast.Identifier:
		name := n.Name.String()
		if name == Variable {
			return func(x float64) (float64, error) { return x, nil }, nil
		}
		if v, ok := c.env.Constant(name); ok {
			return constant(v), nil
		}
		return nil, unsafeErr(int(n.Idx), "identifier %q is not defined", name)

	case *ast.CallExpression:
		return c.call(n)

	case *ast.UnaryExpression:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return nil, err
		}
		return c.unary(n, operand)

	case *ast.BinaryExpression:
		left, err := c.compile(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.compile(n.Right)
		if err != nil {
			return nil, err
		}
		return c.binary(n, left, right)
	}

	return nil, unsafeErr(int(e.Idx0()), "%s is not allowed", nodeKind(e))
}

func (c *compiler) call(n *ast.CallExpression) (evaluator, error) {
	id, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return nil, unsafeErr(int(n.Callee.Idx0()), "call target %s is not allowed", nodeKind(n.Callee))
	}
	fn, ok := c.env.Function(id.Name.String())
	if !ok {
		return nil, unsafeErr(int(id.Idx), "function %q is not defined", id.Name.String())
	}
	if !fn.Accepts(len(n.ArgumentList)) {
		return nil, syntaxErr(int(id.Idx), "%s takes %s, got %d", fn.Name, arity(fn), len(n.ArgumentList))
	}

	args := make([]evaluator, len(n.ArgumentList))
	for i, a := range n.ArgumentList {
		ev, err := c.compile(a)
		if err != nil {
			return nil, err
		}
		args[i] = ev
	}

	name, call := fn.Name, fn.call
	return func(x float64) (float64, error) {
		vals := make([]float64, len(args))
		for i, a := range args {
			v, err := a(x)
			if err != nil {
				return 0, err
			}
			vals[i] = v
		}
		v, err := call(vals)
		if err != nil {
			return 0, err
		}
		return finite(name, v)
	}, nil
}

func (c *compiler) unary(n *ast.UnaryExpression, operand evaluator) (evaluator, error) {
	switch n.Operator {
	case token.PLUS:
		return operand, nil
	case token.MINUS:
		return func(x float64) (float64, error) {
			v, err := operand(x)
			return -v, err
		}, nil
	case token.NOT:
		return func(x float64) (float64, error) {
			v, err := operand(x)
			if err != nil {
				return 0, err
			}
			return truth(v == 0), nil
		}, nil
	}
	return nil, unsafeErr(int(n.Idx), "unary operator %q is not allowed", n.Operator.String())
}

func (c *compiler) binary(n *ast.BinaryExpression, left, right evaluator) (evaluator, error) {
	switch n.Operator {
	case token.LOGICAL_AND:
		return func(x float64) (float64, error) {
			l, err := left(x)
			if err != nil || l == 0 {
				return l, err
			}
			return right(x)
		}, nil
	case token.LOGICAL_OR:
		return func(x float64) (float64, error) {
			l, err := left(x)
			if err != nil || l != 0 {
				return l, err
			}
			return right(x)
		}, nil
	}

	op, ok := binaryOps[n.Operator]
	if !ok {
		return nil, unsafeErr(int(n.Left.Idx1()), "operator %q is not allowed", n.Operator.String())
	}
	return func(x float64) (float64, error) {
		l, err := left(x)
		if err != nil {
			return 0, err
		}
		r, err := right(x)
		if err != nil {
			return 0, err
		}
		return op(l, r)
	}, nil
}

var binaryOps = map[token.Token]func(a, b float64) (float64, error){
	token.PLUS: func(a, b float64) (float64, error) { return finite("addition", a+b) },
	token.MINUS: func(a, b float64) (float64, error) {
		return finite("subtraction", a-b)
	},
	token.MULTIPLY: func(a, b float64) (float64, error) {
		return finite("multiplication", a*b)
	},
	token.SLASH: func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, evalErr("division by zero")
		}
		return finite("division", a/b)
	},
	token.REMAINDER: func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, evalErr("modulo by zero")
		}
		return floorMod(a, b), nil
	},
	token.EXPONENT: func(a, b float64) (float64, error) {
		v, err := power(a, b)
		if err != nil {
			return 0, err
		}
		return finite("power", v)
	},
	token.LESS:             compare(func(a, b float64) bool { return a < b }),
	token.LESS_OR_EQUAL:    compare(func(a, b float64) bool { return a <= b }),
	token.GREATER:          compare(func(a, b float64) bool { return a > b }),
	token.GREATER_OR_EQUAL: compare(func(a, b float64) bool { return a >= b }),
	token.EQUAL:            compare(func(a, b float64) bool { return a == b }),
	token.STRICT_EQUAL:     compare(func(a, b float64) bool { return a == b }),
	token.NOT_EQUAL:        compare(func(a, b float64) bool { return a != b }),
	token.STRICT_NOT_EQUAL: compare(func(a, b float64) bool { return a != b }),
}

func compare(pred func(a, b float64) bool) func(a, b float64) (float64, error) {
	return func(a, b float64) (float64, error) { return truth(pred(a, b)), nil }
}

func constant(v float64) evaluator {
	return func(float64) (float64, error) { return v, nil }
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// floorMod returns a mod b with the sign of b.
func floorMod(a, b float64) float64 {
	r := gomath.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func finite(op string, v float64) (float64, error) {
	if gomath.IsInf(v, 0) {
		return 0, evalErr("%s overflowed", op)
	}
	if gomath.IsNaN(v) {
		return 0, evalErr("%s is undefined", op)
	}
	return v, nil
}
