package host

import (
	"errors"
	"fmt"
)

// ErrorType classifies platform-facing errors.
type ErrorType string

const (
	// ErrInvalidData marks bad input rejected before any external call.
	ErrInvalidData ErrorType = "invalid_data"
	// ErrUnexpectedState marks a downstream failure surfaced to the caller.
	ErrUnexpectedState ErrorType = "unexpected_state"
	// ErrNotFound marks a missing platform entity.
	ErrNotFound ErrorType = "not_found"
)

// Error is the structured error type the platform expects from providers.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a structured error.
func NewError(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a structured error around a cause.
func WrapError(t ErrorType, cause error, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsType reports whether err is a host Error of the given type.
func IsType(err error, t ErrorType) bool {
	var hostErr *Error
	if errors.As(err, &hostErr) {
		return hostErr.Type == t
	}
	return false
}
