// Package apperr carries an HTTP status alongside an error message so that
// handlers can translate repository and service failures into wire responses
// without matching on message strings.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a failure with a caller-facing message and an HTTP status.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NotFound reports a missing route, row or parent entity.
func NotFound(message string) *Error { return New(http.StatusNotFound, message) }

// Unauthorized reports a credential mismatch or missing session.
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }

// Forbidden reports an operation that is closed to the caller.
func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }

// Invalid reports a malformed or incomplete request.
func Invalid(message string) *Error { return New(http.StatusBadRequest, message) }

// Status extracts the (status, message) pair from err. Errors that do not
// carry a status map to 500 with a generic message so internal details never
// leak to the wire.
func Status(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code, ae.Message
	}
	return http.StatusInternalServerError, "internal error"
}
