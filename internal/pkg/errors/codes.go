package errors

import "net/http"

// Error code constants. Errors carry code + message; backend logs stay in
// English, callers key off the code.

// Auth error codes.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
)

// Resource error codes.
const (
	CodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	CodeBookNotFound    = "BOOK_NOT_FOUND"
	CodeRequestNotFound = "REQUEST_NOT_FOUND"
	CodeBookUnavailable = "BOOK_UNAVAILABLE"
)

// Validation error codes.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidID      = "INVALID_ID"
)

// Upstream error codes.
const (
	CodeInternal      = "INTERNAL_ERROR"
	CodePaymentFailed = "PAYMENT_FAILED"
)

// Convenience constructors using predefined codes.

// ErrMissingToken is returned when no usable bearer token accompanies the
// request; the identity provider is never called in this case.
func ErrMissingToken() *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    "missing token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrInvalidToken is returned when the identity provider rejects a token.
func ErrInvalidToken() *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    "invalid token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrBookUnavailable is returned when a conditional status transition
// finds the book no longer available.
func ErrBookUnavailable() *AppError {
	return &AppError{
		Code:       CodeBookUnavailable,
		Message:    "book is no longer available",
		HTTPStatus: http.StatusConflict,
	}
}

// ErrInvalidID is returned for identifiers that are not 24-hex-character
// record ids.
func ErrInvalidID() *AppError {
	return &AppError{
		Code:       CodeInvalidID,
		Message:    "malformed record identifier",
		HTTPStatus: http.StatusBadRequest,
	}
}
