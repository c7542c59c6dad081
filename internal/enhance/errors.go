package enhance

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is wrapped by every error caused by a parameter
	// outside its domain (clip limit <= 0, even or non-positive kernel size,
	// or a caller-level range violation reported by Params.Validate).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDimensionMismatch signals that planes of different sizes reached
	// Merge. It indicates a programming fault rather than bad user input.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ParamError describes a rejected parameter value.
type ParamError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Name, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
