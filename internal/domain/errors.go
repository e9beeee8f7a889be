package domain

import (
	"fmt"
	"strings"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Kind     string `json:"kind"`
}

// ValidationError reports one or more rejected input fields. It is recovered at
// the HTTP boundary and rendered as a 422 with the field list.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Location, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(location, message, kind string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Location: location, Message: message, Kind: kind}}}
}

// UpstreamError wraps a model provider failure. Cause is the human-readable
// reason surfaced to the caller; provider-internal error types never leak past
// this wrapper.
type UpstreamError struct {
	Cause string
	Err   error
}

func (e *UpstreamError) Error() string {
	return "upstream AI provider error: " + e.Cause
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
