package lifecycle

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record id does not exist.
// It is an expected outcome for stale ids, not an internal failure.
var ErrNotFound = errors.New("not found")

// ValidationError flags malformed or missing caller input. The engine
// reports it and never retries; presentation is the gateway's problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
