package repository

import (
	"errors"
	"sort"
	"strings"
)

// Store-level errors services can distinguish. Anything not matching one
// of these is an infrastructure failure.
var (
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict signals an optimistic-concurrency conflict: the
	// row changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
)

// ConstraintError reports uniqueness or field constraint violations raised
// by the store during a save, keyed by the offending field.
type ConstraintError struct {
	Violations map[string]string
}

func (e *ConstraintError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Violations[f])
	}
	return "constraint violation: " + strings.Join(parts, "; ")
}
