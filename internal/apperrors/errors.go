// Package apperrors defines the error taxonomy shared by services and
// handlers. Services classify failures by wrapping one of the sentinels;
// handlers translate them to HTTP status codes with HTTPStatus.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound: a referenced item or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: authorization failure (wrong owner, self-claim).
	ErrForbidden = errors.New("forbidden")
	// ErrConflict: concurrent state mismatch or duplicate-owner link attempt.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument: missing required field or unrecognized action.
	ErrInvalidArgument = errors.New("invalid argument")
)

// HTTPStatus maps a classified error to its status code. Unclassified errors
// are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
