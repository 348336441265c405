// Package errors provides structured error types for the geotour pipeline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI commands and pipeline stages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map to the pipeline's failure taxonomy:
//   - VALIDATION_*: input validation failures (columns, coordinates, node ids)
//   - IO_ERROR: file open/write failures
//   - SOLVER_*: external solver failures (missing executable, non-zero exit)
//   - PARSE_*: tour file parsing failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCoordinate, "row %d: latitude %q", i, v)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinate) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "VALIDATION_INPUT"
	ErrCodeInvalidColumn     Code = "VALIDATION_COLUMN"
	ErrCodeInvalidCoordinate Code = "VALIDATION_COORDINATE"
	ErrCodeInvalidNode       Code = "VALIDATION_NODE"
	ErrCodeInvalidParams     Code = "VALIDATION_PARAMS"
	ErrCodeInvalidFormat     Code = "VALIDATION_FORMAT"

	// File I/O errors
	ErrCodeIO Code = "IO_ERROR"

	// External solver errors
	ErrCodeSolverNotFound Code = "SOLVER_NOT_FOUND"
	ErrCodeSolverFailed   Code = "SOLVER_FAILED"

	// Tour file parsing errors
	ErrCodeParse       Code = "PARSE_ERROR"
	ErrCodeInvalidTour Code = "PARSE_INVALID_TOUR"

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

// IsValidation reports whether err belongs to the validation code family.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidColumn, ErrCodeInvalidCoordinate,
		ErrCodeInvalidNode, ErrCodeInvalidParams, ErrCodeInvalidFormat:
		return true
	}
	return false
}
