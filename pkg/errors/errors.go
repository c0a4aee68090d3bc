package errors

import (
	"errors"
	"fmt"
)

// Generic error types

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")
)

// Feed-specific errors

var (
	// ErrUpstreamUnavailable indicates a feed answered with a non-2xx status
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamMalformed indicates a feed call broke: transport failure,
	// undecodable body or missing fields
	ErrUpstreamMalformed = errors.New("upstream malformed response")

	// ErrRateLimitExceeded indicates the local outbound limiter refused a call
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCacheMiss indicates a cache lookup found nothing usable
	ErrCacheMiss = errors.New("cache miss")
)

// UpstreamUnavailableError carries the status code returned by a feed.
// It matches ErrUpstreamUnavailable via errors.Is.
type UpstreamUnavailableError struct {
	Feed       string
	StatusCode int
}

// Error implements the error interface
func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrUpstreamUnavailable, e.Feed, e.StatusCode)
}

// Is reports whether target is ErrUpstreamUnavailable
func (e *UpstreamUnavailableError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// NewUpstreamUnavailable creates an UpstreamUnavailableError
func NewUpstreamUnavailable(feed string, statusCode int) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Feed: feed, StatusCode: statusCode}
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap lets validation errors match ErrInvalidInput
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Unwrap exposes every collected error to errors.Is / errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
