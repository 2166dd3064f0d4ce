package expression

import (
	gomath "math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
)

// Variable is the only free identifier a formula may use.
const Variable = "x"

// Variadic marks a Builtin that accepts any number of arguments above MinArgs.
const Variadic = -1

// Builtin describes an allow-listed function.
type Builtin struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	MinArgs     int    `json:"min_args"`
	MaxArgs     int    `json:"max_args"`

	call func(args []float64) (float64, error)
}

// Constant describes an allow-listed named value.
type Constant struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// Accepts reports whether n arguments satisfy the builtin's arity.
func (b *Builtin) Accepts(n int) bool {
	if n < b.MinArgs {
		return false
	}
	return b.MaxArgs == Variadic || n <= b.MaxArgs
}

// Environment is the restricted namespace compiled formulas resolve names in.
// It is immutable once built.
type Environment struct {
	funcs  map[string]*Builtin
	consts map[string]Constant
}

// Function looks up an allow-listed function.
func (e *Environment) Function(name string) (*Builtin, bool) {
	b, ok := e.funcs[name]
	return b, ok
}

// Constant looks up an allow-listed constant.
func (e *Environment) Constant(name string) (float64, bool) {
	c, ok := e.consts[name]
	return c.Value, ok
}

// Names returns every identifier the environment exposes, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.funcs)+len(e.consts))
	for n := range e.funcs {
		names = append(names, n)
	}
	for n := range e.consts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var defaultEnv = newEnvironment()

// DefaultEnvironment returns the shared allow-list environment.
func DefaultEnvironment() *Environment { return defaultEnv }

// Builtins lists the allow-listed functions sorted by name.
func Builtins() []Builtin {
	out := make([]Builtin, 0, len(defaultEnv.funcs))
	for _, b := range defaultEnv.funcs {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Constants lists the allow-listed constants sorted by name.
func Constants() []Constant {
	out := make([]Constant, 0, len(defaultEnv.consts))
	for _, c := range defaultEnv.consts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func newEnvironment() *Environment {
	env := &Environment{
		funcs:  make(map[string]*Builtin),
		consts: make(map[string]Constant),
	}

	for _, c := range []Constant{
		{Name: "pi", Value: gomath.Pi, Description: "Ratio of a circle's circumference to its diameter"},
		{Name: "e", Value: gomath.E, Description: "Euler's number"},
		{Name: "tau", Value: 2 * gomath.Pi, Description: "Full turn in radians (2π)"},
	} {
		env.consts[c.Name] = c
	}

	add := func(name, category, desc string, minArgs, maxArgs int, call func([]float64) (float64, error)) {
		env.funcs[name] = &Builtin{
			Name:        name,
			Category:    category,
			Description: desc,
			MinArgs:     minArgs,
			MaxArgs:     maxArgs,
			call:        call,
		}
	}

	// Trigonometric
	add("sin", "trigonometric", "Sine (radians)", 1, 1, unary(gomath.Sin))
	add("cos", "trigonometric", "Cosine (radians)", 1, 1, unary(gomath.Cos))
	add("tan", "trigonometric", "Tangent (radians)", 1, 1, unary(gomath.Tan))
	add("asin", "trigonometric", "Arc sine", 1, 1, func(a []float64) (float64, error) {
		if a[0] < -1 || a[0] > 1 {
			return 0, evalErr("asin: %g outside [-1, 1]", a[0])
		}
		return gomath.Asin(a[0]), nil
	})
	add("acos", "trigonometric", "Arc cosine", 1, 1, func(a []float64) (float64, error) {
		if a[0] < -1 || a[0] > 1 {
			return 0, evalErr("acos: %g outside [-1, 1]", a[0])
		}
		return gomath.Acos(a[0]), nil
	})
	add("atan", "trigonometric", "Arc tangent", 1, 1, unary(gomath.Atan))
	add("atan2", "trigonometric", "Arc tangent of y/x using the signs of both", 2, 2, binary(gomath.Atan2))

	// Hyperbolic
	add("sinh", "hyperbolic", "Hyperbolic sine", 1, 1, unary(gomath.Sinh))
	add("cosh", "hyperbolic", "Hyperbolic cosine", 1, 1, unary(gomath.Cosh))
	add("tanh", "hyperbolic", "Hyperbolic tangent", 1, 1, unary(gomath.Tanh))
	add("asinh", "hyperbolic", "Inverse hyperbolic sine", 1, 1, unary(gomath.Asinh))
	add("acosh", "hyperbolic", "Inverse hyperbolic cosine", 1, 1, func(a []float64) (float64, error) {
		if a[0] < 1 {
			return 0, evalErr("acosh: %g is less than 1", a[0])
		}
		return gomath.Acosh(a[0]), nil
	})
	add("atanh", "hyperbolic", "Inverse hyperbolic tangent", 1, 1, func(a []float64) (float64, error) {
		if a[0] <= -1 || a[0] >= 1 {
			return 0, evalErr("atanh: %g outside (-1, 1)", a[0])
		}
		return gomath.Atanh(a[0]), nil
	})

	// Exponential and logarithmic
	add("exp", "exponential", "e raised to the argument", 1, 1, unary(gomath.Exp))
	add("expm1", "exponential", "exp(v) - 1, accurate near zero", 1, 1, unary(gomath.Expm1))
	add("exp2", "exponential", "2 raised to the argument", 1, 1, unary(gomath.Exp2))
	add("log", "exponential", "Natural logarithm, or log(v, base)", 1, 2, logN)
	add("log2", "exponential", "Base-2 logarithm", 1, 1, positive("log2", gomath.Log2))
	add("log10", "exponential", "Base-10 logarithm", 1, 1, positive("log10", gomath.Log10))
	add("log1p", "exponential", "log(1 + v), accurate near zero", 1, 1, func(a []float64) (float64, error) {
		if a[0] <= -1 {
			return 0, evalErr("log1p: %g is not greater than -1", a[0])
		}
		return gomath.Log1p(a[0]), nil
	})

	// Powers and roots
	add("pow", "power", "v raised to the power p", 2, 2, func(a []float64) (float64, error) {
		return power(a[0], a[1])
	})
	add("sqrt", "power", "Square root", 1, 1, func(a []float64) (float64, error) {
		if a[0] < 0 {
			return 0, evalErr("sqrt: %g is negative", a[0])
		}
		return gomath.Sqrt(a[0]), nil
	})
	add("cbrt", "power", "Cube root", 1, 1, unary(gomath.Cbrt))
	add("hypot", "power", "Euclidean norm of the arguments", 1, Variadic, func(a []float64) (float64, error) {
		return floats.Norm(a, 2), nil
	})

	// Rounding and sign
	add("abs", "rounding", "Absolute value", 1, 1, unary(gomath.Abs))
	add("fabs", "rounding", "Absolute value", 1, 1, unary(gomath.Abs))
	add("floor", "rounding", "Largest integer not greater than v", 1, 1, unary(gomath.Floor))
	add("ceil", "rounding", "Smallest integer not less than v", 1, 1, unary(gomath.Ceil))
	add("trunc", "rounding", "Integer part of v", 1, 1, unary(gomath.Trunc))
	add("copysign", "rounding", "Magnitude of a with the sign of b", 2, 2, binary(gomath.Copysign))
	add("fmod", "rounding", "Remainder of a/b with the sign of a", 2, 2, func(a []float64) (float64, error) {
		if a[1] == 0 {
			return 0, evalErr("fmod: modulo by zero")
		}
		return gomath.Mod(a[0], a[1]), nil
	})

	// Special functions
	add("gamma", "special", "Gamma function", 1, 1, func(a []float64) (float64, error) {
		if isNonPositiveInteger(a[0]) {
			return 0, evalErr("gamma: pole at %g", a[0])
		}
		return gomath.Gamma(a[0]), nil
	})
	add("lgamma", "special", "Natural log of |gamma(v)|", 1, 1, func(a []float64) (float64, error) {
		if isNonPositiveInteger(a[0]) {
			return 0, evalErr("lgamma: pole at %g", a[0])
		}
		lg, _ := gomath.Lgamma(a[0])
		return lg, nil
	})
	add("erf", "special", "Error function", 1, 1, unary(gomath.Erf))
	add("erfc", "special", "Complementary error function", 1, 1, unary(gomath.Erfc))
	add("factorial", "special", "v! for non-negative integers", 1, 1, func(a []float64) (float64, error) {
		if a[0] < 0 || a[0] != gomath.Trunc(a[0]) {
			return 0, evalErr("factorial: %g is not a non-negative integer", a[0])
		}
		return gomath.Gamma(a[0] + 1), nil
	})
	add("beta", "special", "Beta function B(a, b)", 2, 2, func(a []float64) (float64, error) {
		if a[0] <= 0 || a[1] <= 0 {
			return 0, evalErr("beta: arguments must be positive, got %g and %g", a[0], a[1])
		}
		return mathext.Beta(a[0], a[1]), nil
	})
	add("digamma", "special", "Logarithmic derivative of gamma", 1, 1, func(a []float64) (float64, error) {
		if isNonPositiveInteger(a[0]) {
			return 0, evalErr("digamma: pole at %g", a[0])
		}
		return mathext.Digamma(a[0]), nil
	})

	// Angle conversion
	add("degrees", "angle", "Radians to degrees", 1, 1, unary(func(v float64) float64 { return v * 180 / gomath.Pi }))
	add("radians", "angle", "Degrees to radians", 1, 1, unary(func(v float64) float64 { return v * gomath.Pi / 180 }))

	// Aggregates
	add("min", "aggregate", "Smallest argument", 1, Variadic, func(a []float64) (float64, error) {
		return floats.Min(a), nil
	})
	add("max", "aggregate", "Largest argument", 1, Variadic, func(a []float64) (float64, error) {
		return floats.Max(a), nil
	})

	return env
}

func unary(fn func(float64) float64) func([]float64) (float64, error) {
	return func(a []float64) (float64, error) { return fn(a[0]), nil }
}

func binary(fn func(float64, float64) float64) func([]float64) (float64, error) {
	return func(a []float64) (float64, error) { return fn(a[0], a[1]), nil }
}

func positive(name string, fn func(float64) float64) func([]float64) (float64, error) {
	return func(a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, evalErr("%s: %g is not positive", name, a[0])
		}
		return fn(a[0]), nil
	}
}

func logN(a []float64) (float64, error) {
	if a[0] <= 0 {
		return 0, evalErr("log: %g is not positive", a[0])
	}
	if len(a) == 1 {
		return gomath.Log(a[0]), nil
	}
	base := a[1]
	if base <= 0 {
		return 0, evalErr("log: base %g is not positive", base)
	}
	if base == 1 {
		return 0, evalErr("log: base 1 divides by zero")
	}
	return gomath.Log(a[0]) / gomath.Log(base), nil
}

// power follows real-valued exponentiation: no complex results, no division by zero.
func power(base, exp float64) (float64, error) {
	if base == 0 && exp < 0 {
		return 0, evalErr("power: zero raised to negative power %g", exp)
	}
	if base < 0 && exp != gomath.Trunc(exp) {
		return 0, evalErr("power: negative base %g with fractional exponent %g", base, exp)
	}
	return gomath.Pow(base, exp), nil
}

func isNonPositiveInteger(v float64) bool {
	return v <= 0 && v == gomath.Trunc(v)
}
