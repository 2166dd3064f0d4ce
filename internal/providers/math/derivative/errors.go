package derivative

import "errors"

var (
	// ErrInvalidStep is returned when h is not a positive finite number.
	ErrInvalidStep = errors.New("derivative: step must be positive and finite")

	// ErrInvalidRange is returned for malformed sampling arguments.
	ErrInvalidRange = errors.New("derivative: invalid range")

	// ErrUnknownMethod is returned by ParseMethod for unrecognised names.
	ErrUnknownMethod = errors.New("derivative: unknown method")

	// ErrEvaluation is returned when f fails or an estimate is not finite.
	ErrEvaluation = errors.New("derivative: evaluation failed")
)
