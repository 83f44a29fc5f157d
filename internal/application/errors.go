package application

import (
	"sort"
	"strings"
)

// The error taxonomy services expose upward. Store-specific error types
// never leave this package; handlers map these three onto the transport.

// ValidationError reports malformed or missing input. Messages are
// user-displayable and may aggregate several field violations.
type ValidationError struct {
	Violations map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e.Violations[f])
	}
	return strings.Join(parts, "; ")
}

// ConflictError reports a uniqueness violation or a concurrent
// modification. The message is user-displayable and instructs the user to
// retry with different data or reload first.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// OperationFailedError wraps a store or infrastructure failure. The
// underlying cause is logged where it happened; callers only ever see the
// generic message.
type OperationFailedError struct {
	Message string
	Err     error
}

func (e *OperationFailedError) Error() string { return e.Message }

func (e *OperationFailedError) Unwrap() error { return e.Err }

func operationFailed(msg string, err error) *OperationFailedError {
	return &OperationFailedError{Message: msg, Err: err}
}
