// Package errors provides structured error types for dontpanic.
//
// Error codes let the CLI and the preview server tell fatal conditions
// (a manifest that cannot be read, no manifest at all) apart from
// recoverable ones (a sprite sheet that is missing on disk).
//
// # Error Codes
//
//   - MANIFEST_ERROR: manifest missing, unreadable, or without tile_info
//   - CONFIGURATION_ERROR: no manifest discoverable, invalid config file
//   - ASSET_MISSING: sprite sheet or symbolic id could not be resolved
//   - INVALID_*: input validation failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "no manifest under %s", root)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // abort before rendering
//	}
//
//	err := errors.Wrap(errors.ErrCodeManifest, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal startup errors
	ErrCodeManifest      Code = "MANIFEST_ERROR"
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"

	// Recoverable asset errors
	ErrCodeAssetMissing Code = "ASSET_MISSING"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidPhrase Code = "INVALID_PHRASE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

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

// IsFatal reports whether err aborts a run before any variation is rendered.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeManifest, ErrCodeConfiguration:
		return true
	}
	return false
}
