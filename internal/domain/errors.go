package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyDecided   = errors.New("action log has already been approved or rejected")
	ErrUnavailable      = errors.New("service unavailable")
)

// NonFieldErrors is the key used for errors that do not belong to one input field.
const NonFieldErrors = "non_field_errors"

// ValidationError collects per-field messages. It unwraps to ErrInvalidInput
// unless a more specific cause is attached.
type ValidationError struct {
	Fields map[string][]string
	cause  error
}

func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// WithCause marks the validation failure as a symptom of another error kind.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrInvalidInput
}
