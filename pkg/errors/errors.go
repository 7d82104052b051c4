// Package errors holds the coded errors shared by the diagram engine, the
// CLI and the HTTP service.
//
// Every failure that reaches a user carries a [Code]. The code decides how
// loudly it is reported ([Severity]) and which HTTP status the service
// answers with:
//
//	err := errors.New(errors.ErrCodeMalformedID, "not a compound id: %s", id)
//	errors.Is(err, errors.ErrCodeMalformedID) // true
//
//	err = errors.Wrap(errors.ErrCodeExpansion, cause, "expand %s", id)
//	errors.UserMessage(err) // "expand RA:7"
//
// Codes are grouped by prefix: INVALID_* and MALFORMED_* for bad input,
// *NOT_FOUND and NOT_* for missing or inapplicable targets, EXPANSION_*,
// DEPTH_* and LAYOUT_* for engine states, NETWORK_* and friends for the
// argument service.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPayload Code = "INVALID_PAYLOAD"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeMalformedID    Code = "MALFORMED_ID"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeNotExpandable   Code = "NOT_EXPANDABLE"

	ErrCodeAlreadyExpanded Code = "ALREADY_EXPANDED"
	ErrCodeDepthLimit      Code = "DEPTH_LIMIT"
	ErrCodeExpansionBusy   Code = "EXPANSION_BUSY"
	ErrCodeExpansion       Code = "EXPANSION_FAILED"
	ErrCodeLayout          Code = "LAYOUT_FAILED"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a coded error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any coded error in err's chain has the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns text fit for a notice: the outermost coded message
// without its code, plus a retry hint when the argument service asked the
// caller to back off. Bare context errors read as plain words.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded) && GetCode(err) == "":
		return "timed out"
	case errors.Is(err, context.Canceled) && GetCode(err) == "":
		return "cancelled"
	}

	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	var rl *RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry in %ds)", msg, rl.RetryAfter)
	}
	return msg
}

// RateLimitedError is returned for 429 responses. RetryAfter is in seconds.
type RateLimitedError struct {
	RetryAfter int
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns ErrCodeRateLimited.
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
