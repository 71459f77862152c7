package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and a stable machine code alongside the
// underlying cause. Handlers translate any error into a response through
// From; services construct these directly.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation: malformed or missing input, user-fixable.
func Validation(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// NotFound: the referenced entity does not exist.
func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

// Forbidden: authenticated but not authorized for this entity.
func Forbidden(code string, err error) *Error {
	return New(http.StatusForbidden, code, err)
}

// Conflict: an invariant would be violated (duplicate live session,
// duplicate tx hash, duplicate archive).
func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

// Storage: infrastructure failure, not user-fixable.
func Storage(err error) *Error {
	return New(http.StatusInternalServerError, "storage_error", err)
}

// From returns the *Error in err's chain, or wraps err as a storage failure.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Storage(err)
}
