// Package common defines shared constants and sentinel errors used across
// the salaries service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid, expired or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// DetailError carries a user-facing message on top of a sentinel error.
// The message is what API clients see in the "detail" field.
type DetailError struct {
	Err    error
	Detail string
}

func (e *DetailError) Error() string {
	return e.Err.Error() + ": " + e.Detail
}

func (e *DetailError) Unwrap() error {
	return e.Err
}

// NewDetailError wraps err with a user-facing detail message.
func NewDetailError(err error, detail string) error {
	return &DetailError{Err: err, Detail: detail}
}

// Detail returns the user-facing message of err, if any.
func Detail(err error) (string, bool) {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail, true
	}
	return "", false
}
