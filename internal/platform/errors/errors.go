// Package errors provides error types and utilities for Kirwada.
// It extends the standard errors package with additional context and wrapping capabilities.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors covering the dispatch and export failure taxonomy
var (
	// ErrInvalidInput indicates a malformed query or kind, rejected before dispatch
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnitFailed indicates a specific unit's execution failed (isolated)
	ErrUnitFailed = errors.New("unit execution failed")

	// ErrUnitTimeout indicates a unit exceeded its per-unit budget (isolated)
	ErrUnitTimeout = errors.New("unit timed out")

	// ErrDispatchCancelled indicates a caller-initiated abort
	ErrDispatchCancelled = errors.New("dispatch cancelled")

	// ErrExportFailed indicates the destination was unwritable or the format failed
	ErrExportFailed = errors.New("export failed")

	// ErrUnsupportedFormat indicates an unknown export format was requested
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnitNotFound indicates a unit name that is not registered
	ErrUnitNotFound = errors.New("unit not found")

	// ErrNoUnitsAvailable indicates no unit could be built or applied
	ErrNoUnitsAvailable = errors.New("no units available")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrConnectionFailed indicates a connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsInvalidInput reports whether the error is an invalid input error
func IsInvalidInput(err error) bool {
	return Is(err, ErrInvalidInput)
}

// IsUnitFailed reports whether the error is a unit failure error
func IsUnitFailed(err error) bool {
	return Is(err, ErrUnitFailed)
}

// IsUnitTimeout reports whether the error is a unit timeout error
func IsUnitTimeout(err error) bool {
	return Is(err, ErrUnitTimeout)
}

// IsDispatchCancelled reports whether the error is a cancellation error
func IsDispatchCancelled(err error) bool {
	return Is(err, ErrDispatchCancelled)
}

// IsExportFailed reports whether the error is an export failure error
func IsExportFailed(err error) bool {
	return Is(err, ErrExportFailed)
}

// IsRateLimit reports whether the error is a rate limit error
func IsRateLimit(err error) bool {
	return Is(err, ErrRateLimit)
}

// IsNotFound reports whether the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}
