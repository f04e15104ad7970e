// Package errors provides structured error types for gitbump.
//
// Every failure the resolution pipeline can surface carries a machine-readable
// [Code], so callers can tell a bad manifest apart from an unreachable remote
// without string matching:
//
//   - REMOTE_QUERY: listing tags at a remote failed (network, auth, transport)
//   - UNRESOLVABLE_SOURCE: a dependency's source cannot be turned into a queryable URL
//   - INVALID_VERSION: an installed version is not a valid semantic version
//   - MISSING_DEPENDENCY: a requested name is absent from the manifest
//   - INVALID_MANIFEST / INVALID_DESCRIPTOR: unreadable or malformed package.json
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingDependency, "can't find dependency `%s`", name)
//	if errors.Is(err, errors.ErrCodeMissingDependency) {
//	    // Handle bad input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRemoteQuery, origErr, "list tags for %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidPackage     Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest    Code = "INVALID_MANIFEST"
	ErrCodeInvalidDescriptor  Code = "INVALID_DESCRIPTOR"
	ErrCodeInvalidVersion     Code = "INVALID_VERSION"
	ErrCodeMissingDependency  Code = "MISSING_DEPENDENCY"
	ErrCodeUnresolvableSource Code = "UNRESOLVABLE_SOURCE"

	// Remote errors
	ErrCodeRemoteQuery  Code = "REMOTE_QUERY"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Install and internal errors
	ErrCodeInstall  Code = "INSTALL_FAILED"
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
// Only the outermost *Error in the chain is consulted, so a REMOTE_QUERY
// wrapping a RATE_LIMITED cause reports REMOTE_QUERY.
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
// For *Error types the code prefix is dropped; the cause, if any, is kept
// because it usually names the remote or file that failed.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
