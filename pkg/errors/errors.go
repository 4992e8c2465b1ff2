// Package errors provides structured error types for mlopsdiagrams.
//
// Every failure the tool reports falls into one of three families:
//   - construction errors: a builder violated a graph invariant
//     (dangling endpoint, unbalanced cluster scope, mutation after render)
//   - resolution errors: an output path or format cannot be used
//   - render errors: the layout backend could not produce the image
//
// Codes are machine-readable so the CLI, the preview server and tests can
// branch on the family without matching message text.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "edge source %q belongs to another diagram", label)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // programmer error in a builder
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "render %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction errors
	ErrCodeInvalidGraph Code = "INVALID_GRAPH"
	ErrCodeInvalidStyle Code = "INVALID_STYLE"

	// Resolution errors
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeDuplicateOutput Code = "DUPLICATE_OUTPUT"
	ErrCodeNotFound        Code = "NOT_FOUND"

	// Render errors
	ErrCodeRender       Code = "RENDER_FAILED"
	ErrCodeMissingAsset Code = "MISSING_ASSET"

	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain (including joined errors) looking for an
// *Error with a matching code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsConstruction reports whether err is a builder-side invariant violation.
func IsConstruction(err error) bool {
	return Is(err, ErrCodeInvalidGraph) || Is(err, ErrCodeInvalidStyle)
}

// IsResolution reports whether err came from output path or format checks.
func IsResolution(err error) bool {
	return Is(err, ErrCodeInvalidFormat) || Is(err, ErrCodeInvalidPath) || Is(err, ErrCodeDuplicateOutput)
}

// Join is [errors.Join] from the standard library, so callers need only
// this package for error handling.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
