// Package errors provides standardized domain errors with codes for the FrameGuessr engine.
//
// Usage:
//
//	// In provider clients and the engine - return typed errors
//	if resp.StatusCode == http.StatusTooManyRequests {
//	    return errors.RateLimited("tmdb rejected the request")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrInsufficientContent) {
//	    response.Error(w, http.StatusNotFound, err.Error(), logger)
//	    return
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the engine.
const (
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeProvider            Code = "PROVIDER_ERROR"
	CodeNetwork             Code = "NETWORK_ERROR"
	CodeInsufficientContent Code = "INSUFFICIENT_CONTENT"
	CodeCancelled           Code = "CANCELLED"
	CodeUnknownCategory     Code = "UNKNOWN_CATEGORY"
	CodeValidation          Code = "VALIDATION"
	CodeInternal            Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeInsufficientContent:
		return http.StatusNotFound
	case CodeProvider, CodeNetwork:
		return http.StatusBadGateway
	case CodeCancelled:
		// Client closed request; 499 is the de facto convention.
		return 499
	case CodeValidation, CodeUnknownCategory:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional provider status.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// Status carries the upstream HTTP status for CodeProvider errors.
	Status int   `json:"status,omitempty"`
	cause  error // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrRateLimited         = &Error{Code: CodeRateLimited, Message: "rate limited by provider"}
	ErrUnauthorized        = &Error{Code: CodeUnauthorized, Message: "provider rejected credentials"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrProvider            = &Error{Code: CodeProvider, Message: "provider error"}
	ErrNetwork             = &Error{Code: CodeNetwork, Message: "network error"}
	ErrInsufficientContent = &Error{Code: CodeInsufficientContent, Message: "no title with enough screenshots"}
	ErrCancelled           = &Error{Code: CodeCancelled, Message: "cancelled"}
	ErrUnknownCategory     = &Error{Code: CodeUnknownCategory, Message: "unknown content category"}
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// RateLimited creates a rate-limited error.
func RateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Provider creates a provider error carrying the upstream HTTP status.
func Provider(status int, msg string) *Error {
	return &Error{Code: CodeProvider, Message: msg, Status: status}
}

// Providerf creates a provider error with formatted message.
func Providerf(status int, format string, args ...any) *Error {
	return &Error{Code: CodeProvider, Message: fmt.Sprintf(format, args...), Status: status}
}

// Network creates a network error.
func Network(msg string) *Error {
	return &Error{Code: CodeNetwork, Message: msg}
}

// InsufficientContent creates an insufficient-content error.
func InsufficientContent(msg string) *Error {
	return &Error{Code: CodeInsufficientContent, Message: msg}
}

// Cancelled creates a cancelled error.
func Cancelled(msg string) *Error {
	return &Error{Code: CodeCancelled, Message: msg}
}

// UnknownCategory creates an unknown-category error. This is a programmer
// error: categories are a closed, compile-time-known set.
func UnknownCategory(msg string) *Error {
	return &Error{Code: CodeUnknownCategory, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with detail context.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf("%s: %v", msg, details)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// FromContext maps a context error to the domain Cancelled error.
// Returns nil if err is not a context error.
func FromContext(err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCancelled.WithCause(err)
	}
	return nil
}
