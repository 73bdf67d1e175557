package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrGatewayError      = errors.New("payment gateway error")
	ErrValidation        = errors.New("validation error")
	ErrAlreadyConfirmed  = errors.New("bill already confirmed")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
)

// DetailError carries the human-readable message shown to clients while still
// matching its sentinel through errors.Is.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string {
	return e.Kind.Error() + ": " + e.Detail
}

func (e *DetailError) Unwrap() error {
	return e.Kind
}

func detail(kind error, msg string) error {
	return &DetailError{Kind: kind, Detail: msg}
}

// Detail returns the client-facing message of err, falling back to fallback
// when err carries none.
func Detail(err error, fallback string) string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail
	}
	return fallback
}
