package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoRoadmap is the sentinel for the 404 the roadmap service returns when
// the user has no roadmap. It is an expected state, not a failure.
var ErrNoRoadmap = errors.New("no roadmap found")

// Error carries the HTTP status and the server-supplied message of a failed
// remote call.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// IsNotFound reports whether err represents the absence of a roadmap, either
// via the sentinel or via a 404 status.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNoRoadmap) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

// MessageOr returns the server-supplied message when err carries one, and
// fallback otherwise.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
