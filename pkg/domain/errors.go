package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMachineNotFound is returned when a loader has no machine with the requested name.
var ErrMachineNotFound = errors.New("machine not found")

// ErrResultNotFound is returned when a result ID cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")

// ErrMalformedMachine is wrapped by every definition error reported by loaders and the validator.
var ErrMalformedMachine = errors.New("malformed machine definition")

// ErrNoStore is returned by result operations when no result store is configured.
var ErrNoStore = errors.New("no result store configured")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// Unwrap lets errors.Is match ErrMalformedMachine.
func (e *ValidationError) Unwrap() error {
	return ErrMalformedMachine
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
