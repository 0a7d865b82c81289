package performance

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("plan not found")
	ErrUnauthorized      = errors.New("not authorized to act on plan")
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrWriteConflict is retryable: re-read the plan and resubmit.
	ErrWriteConflict   = errors.New("plan was modified concurrently")
	ErrValidation      = errors.New("validation failed")
	ErrMalformedRecord = errors.New("malformed plan record")
)

// TransitionError carries the state a rejected action was attempted from.
type TransitionError struct {
	Status Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s not allowed from %s", e.Action, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func malformed(id, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrMalformedRecord, id, fmt.Sprintf(format, args...))
}
