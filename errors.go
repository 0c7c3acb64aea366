package inaspects

import (
	"errors"
	"fmt"
)

var (
	// ErrControlDone reports a write to a control whose change stream has
	// already terminated.
	ErrControlDone = errors.New("control is done")

	// ErrNoData reports that a control's data is currently suppressed by
	// its input mode.
	ErrNoData = errors.New("control data is suppressed")

	// ErrSubmitBusy reports an overlapping submit attempt.
	ErrSubmitBusy = errors.New("submit already in progress")
)

// ConversionDirection tells which half of a bidirectional conversion failed.
type ConversionDirection string

const (
	// ConvertForward is the source-to-converted direction.
	ConvertForward ConversionDirection = "forward"
	// ConvertBackward is the converted-to-source direction.
	ConvertBackward ConversionDirection = "backward"
)

// ConversionError wraps a converter failure with the control it occurred on
// and the direction of the failed conversion.
type ConversionError struct {
	Control   string
	Direction ConversionDirection
	Cause     error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error on control %s (%s): %v", e.Control, e.Direction, e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// SubmitError wraps a submit failure with the control it occurred on.
type SubmitError struct {
	Control string
	Cause   error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit error on control %s: %v", e.Control, e.Cause)
}

func (e *SubmitError) Unwrap() error {
	return e.Cause
}

// SafeTypeAssertion performs safe type assertion with proper error
func SafeTypeAssertion[T any](value any) (T, error) {
	if value == nil {
		var zero T
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("type assertion error: expected %T, got %T (value: %v)", zero, value, value)
	}

	return typed, nil
}
