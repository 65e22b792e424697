// Package common defines shared constants and sentinel errors used across
// the portal's storage, service and transport layers. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorForbidden       = errors.New("forbidden")
	ErrorValidation      = errors.New("validation error")
	ErrTooManyAttempts   = errors.New("too many attempts")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// reasonError attaches a human-readable reason to one of the sentinels above.
type reasonError struct {
	kind   error
	reason string
}

func (e *reasonError) Error() string { return e.reason }

func (e *reasonError) Unwrap() error { return e.kind }

// Reason wraps kind with a message that is safe to show to API callers.
// errors.Is(Reason(ErrorConflict, "..."), ErrorConflict) holds.
func Reason(kind error, reason string) error {
	return &reasonError{kind: kind, reason: reason}
}

// PublicReason returns the reason attached with Reason or ValidationError,
// or "" when err carries none.
func PublicReason(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return ""
}

// ValidationError lists every problem found in a piece of client input.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns nil when problems is empty.
func NewValidationError(problems ...string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrorValidation }
