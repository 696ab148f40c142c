// Package errors provides structured error types for heatgrid.
//
// Every invariant violation raised by the layout and deformation engines is an
// *Error carrying a machine-readable Code. Callers can branch on the code
// without string matching:
//
//   - DUPLICATE_NAME, UNKNOWN_PANEL: panel registry violations
//   - ALREADY_SPLIT, SPLIT_TWICE: re-splitting a panel or a matrix axis
//   - ALREADY_FROZEN, NOT_FROZEN: grid lifecycle violations
//   - UNRESOLVED_SIZE: an auto-sized panel was never measured
//   - INVALID_RATIO, INVALID_PERMUTATION: malformed partitions or reindexes
//   - INVALID_*: configuration and input validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateName, "panel %q already exists", name)
//	if errors.Is(err, errors.ErrCodeDuplicateName) {
//	    // pick another name
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Panel registry errors
	ErrCodeDuplicateName Code = "DUPLICATE_NAME"
	ErrCodeUnknownPanel  Code = "UNKNOWN_PANEL"

	// Split errors
	ErrCodeAlreadySplit Code = "ALREADY_SPLIT"
	ErrCodeSplitTwice   Code = "SPLIT_TWICE"

	// Grid lifecycle errors
	ErrCodeAlreadyFrozen   Code = "ALREADY_FROZEN"
	ErrCodeNotFrozen       Code = "NOT_FROZEN"
	ErrCodeUnresolvedSize  Code = "UNRESOLVED_SIZE"
	ErrCodeCanvasTooSmall  Code = "CANVAS_TOO_SMALL"
	ErrCodeInvalidRatio    Code = "INVALID_RATIO"
	ErrCodeInvalidPerm     Code = "INVALID_PERMUTATION"
	ErrCodeShapeMismatch   Code = "SHAPE_MISMATCH"
	ErrCodeNotClustered    Code = "NOT_CLUSTERED"
	ErrCodeClusterConflict Code = "CLUSTER_CONFLICT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
		return e.Message
	}
	return err.Error()
}

// IsUsage reports whether err is a caller mistake (bad configuration or a
// violated invariant) rather than an internal failure.
func IsUsage(err error) bool {
	switch GetCode(err) {
	case "", ErrCodeInternal:
		return false
	}
	return true
}
