// Package errs defines the failure categories shared by every calculator.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for nil required inputs, mismatched array
	// lengths, out-of-range parameters and horizon steps other than +1/-1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedType is returned when a curve, surface, provider or
	// derivative shape has no registered handling.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInconsistentState is returned when inputs are individually valid but
	// contradict a structural expectation (e.g. a required payment is missing).
	ErrInconsistentState = errors.New("inconsistent state")
)

// InvalidArgument wraps ErrInvalidArgument with a formatted detail.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// UnsupportedType wraps ErrUnsupportedType with a formatted detail.
func UnsupportedType(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedType, fmt.Sprintf(format, args...))
}

// InconsistentState wraps ErrInconsistentState with a formatted detail.
func InconsistentState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...))
}
