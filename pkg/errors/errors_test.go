package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeMalformedID, "not a compound id: %s", "RA"), "MALFORMED_ID: not a compound id: RA"},
		{"wrapped", Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch %s", "RA:7"), "NETWORK_ERROR: fetch RA:7: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeExpansion, cause, "expand RA:7")
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want cause", errors.Unwrap(err))
	}
}

func TestIs(t *testing.T) {
	nested := Wrap(ErrCodeExpansion, Wrap(ErrCodeNetwork, errors.New("eof"), "fetch"), "expand RA:7")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", nested, ErrCodeExpansion, true},
		{"inner code", nested, ErrCodeNetwork, true},
		{"absent code", nested, ErrCodeDepthLimit, false},
		{"behind fmt wrap", fmt.Errorf("relayout: %w", New(ErrCodeLayout, "dot failed")), ErrCodeLayout, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"outermost wins", Wrap(ErrCodeExpansion, New(ErrCodeNetwork, "eof"), "expand"), ErrCodeExpansion},
		{"behind fmt wrap", fmt.Errorf("x: %w", New(ErrCodeDepthLimit, "max")), ErrCodeDepthLimit},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	limited := Wrap(ErrCodeRateLimited, &RateLimitedError{RetryAfter: 30}, "argument service rate limit")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeDepthLimit, "maximum depth 3 reached"), "maximum depth 3 reached"},
		{"plain", errors.New("disk full"), "disk full"},
		{"rate limited", limited, "argument service rate limit (retry in 30s)"},
		{"rate limited without hint", Wrap(ErrCodeRateLimited, &RateLimitedError{}, "slow down"), "slow down"},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), "timed out"},
		{"cancelled", context.Canceled, "cancelled"},
		{"coded deadline", Wrap(ErrCodeTimeout, context.DeadlineExceeded, "layout took too long"), "layout took too long"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitedError(t *testing.T) {
	if got := (&RateLimitedError{RetryAfter: 60}).Error(); got != "rate limited: retry after 60 seconds" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&RateLimitedError{}).Error(); got != "rate limited" {
		t.Errorf("Error() = %q", got)
	}
	if (&RateLimitedError{}).Code() != ErrCodeRateLimited {
		t.Error("Code() should be RATE_LIMITED")
	}
}
