// Package service implements the application use-cases over the storage and
// pipeline packages.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a required field is missing or an
	// identifier/URL is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when adding a video whose source identifier
	// already exists.
	ErrConflict = errors.New("already exists")
	// ErrUpstreamUnavailable is returned when the caption source or completion
	// provider fails.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrParseFailure is returned when a provider response is not valid JSON
	// in the expected shape and no fallback applies.
	ErrParseFailure = errors.New("response parse failure")
)

// ValidationError carries a field-level validation message. It unwraps to
// ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
