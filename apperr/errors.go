// Package apperr holds the sentinel errors shared by stores, utils and
// controllers, and their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// Input
	ErrValidation   = errors.New("validation failed")
	ErrWeakPassword = errors.New("password must include uppercase, lowercase, number, and symbol")

	// Identity
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminNotFound      = errors.New("admin not found")

	// Tokens and access
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrForbidden       = errors.New("forbidden")

	// Orders
	ErrOrderNotFound       = errors.New("order not found")
	ErrDuplicatePaymentRef = errors.New("payment reference already used")
	ErrPaymentNotVerified  = errors.New("payment not verified")

	// External collaborators
	ErrUploadFailed = errors.New("image upload failed")
)

// publicError carries the wording clients see while still matching its class
// with errors.Is.
type publicError struct {
	kind error
	msg  string
}

func (e *publicError) Error() string { return e.msg }
func (e *publicError) Unwrap() error { return e.kind }

// WithMessage returns an error of class kind whose Error() is msg.
func WithMessage(kind error, msg string) error {
	return &publicError{kind: kind, msg: msg}
}

// HTTPStatus maps an error onto the status code the API answers with.
// Anything unrecognised is a 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrPaymentNotVerified):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotVerified):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAdminNotFound),
		errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrAlreadyVerified),
		errors.Is(err, ErrDuplicatePaymentRef):
		return http.StatusConflict
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
