package derivative

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePoints reads a comma-separated list of x values such as "0, 1.5, -2".
// Empty entries are ignored.
func ParsePoints(s string) ([]float64, error) {
	var xs []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		x, err := strconv.ParseFloat(field, 64)
		if err != nil || !isFinite(x) {
			return nil, fmt.Errorf("%w: %q is not a finite number", ErrInvalidRange, field)
		}
		xs = append(xs, x)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no points given", ErrInvalidRange)
	}
	return xs, nil
}
