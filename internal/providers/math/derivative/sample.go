package derivative

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Columns names the fields of a Sample in tuple order.
var Columns = []string{"x", "f(x)", "forward", "backward", "central", "five_point", "second"}

// Sample holds f(x) and every derivative estimate at one x.
type Sample struct {
	X         float64 `json:"x" yaml:"x" toml:"x"`
	Fx        float64 `json:"fx" yaml:"fx" toml:"fx"`
	Forward   float64 `json:"forward" yaml:"forward" toml:"forward"`
	Backward  float64 `json:"backward" yaml:"backward" toml:"backward"`
	Central   float64 `json:"central" yaml:"central" toml:"central"`
	FivePoint float64 `json:"five_point" yaml:"five_point" toml:"five_point"`
	Second    float64 `json:"second" yaml:"second" toml:"second"`
}

// Values returns the sample as (x, f(x), forward, backward, central, five_point, second).
func (s Sample) Values() []float64 {
	return []float64{s.X, s.Fx, s.Forward, s.Backward, s.Central, s.FivePoint, s.Second}
}

// Estimate returns the value computed by m.
func (s Sample) Estimate(m Method) float64 {
	switch m {
	case MethodForward:
		return s.Forward
	case MethodBackward:
		return s.Backward
	case MethodCentral:
		return s.Central
	case MethodFivePoint:
		return s.FivePoint
	case MethodSecond:
		return s.Second
	}
	return 0
}

// Spread is max - min over the four first-derivative estimates.
func (s Sample) Spread() float64 {
	firsts := []float64{s.Forward, s.Backward, s.Central, s.FivePoint}
	return floats.Max(firsts) - floats.Min(firsts)
}

// Series is an ascending sequence of samples. Points that failed are absent.
type Series []Sample

// Xs returns the x coordinate of every sample.
func (s Series) Xs() []float64 {
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.X
	}
	return out
}

// Column extracts one named column (see Columns).
func (s Series) Column(name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("derivative: unknown column %q", name)
	}
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.Values()[idx]
	}
	return out, nil
}

// Agreement summarises how closely the first-derivative methods agree across a series.
type Agreement struct {
	MaxSpread  float64 `json:"max_spread"`
	MeanSpread float64 `json:"mean_spread"`
	WorstX     float64 `json:"worst_x"`
}

// Agreement returns the spread summary. An empty series yields the zero value.
func (s Series) Agreement() Agreement {
	if len(s) == 0 {
		return Agreement{}
	}
	spreads := make([]float64, len(s))
	for i, smp := range s {
		spreads[i] = smp.Spread()
	}
	worst := floats.MaxIdx(spreads)
	return Agreement{
		MaxSpread:  spreads[worst],
		MeanSpread: stat.Mean(spreads, nil),
		WorstX:     s[worst].X,
	}
}
