package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrServerBadRequest       = errors.New("server responded with bad request")
	ErrServerError            = errors.New("server responded server error")
	ErrServerUnexpectedStatus = errors.New("server responded with unexpected status")
	ErrUnauthorized           = errors.New("server rejected the session token")
	ErrForbidden              = errors.New("server refused access")
)

// Error carries the API's own error message, decoded from its
// {"error": "..."} body. Handlers display Message inline instead of poking
// into an untyped error shape.
type Error struct {
	Status  int
	Message string

	sentinel error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.Status, e.Message)
}

// Cause exposes the status-class sentinel so callers can keep switching on
// errors.Cause the usual way.
func (e *Error) Cause() error {
	return e.sentinel
}

func (e *Error) Unwrap() error {
	return e.sentinel
}

// Message extracts a user-displayable message from any error returned by
// this package, falling back to a generic one.
func Message(err error) string {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Une erreur est survenue. Veuillez réessayer."
}

func newError(status int, message string) *Error {
	return &Error{Status: status, Message: message, sentinel: statusSentinel(status)}
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status >= 400 && status < 500:
		return ErrServerBadRequest
	case status >= 500:
		return ErrServerError
	default:
		return ErrServerUnexpectedStatus
	}
}
