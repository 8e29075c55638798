package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the requested resource does not exist upstream.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails form-level
// validation (e.g. missing required field, end time before start time).
// Inputs failing validation never reach the network.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAuthentication is the sentinel behind *AuthenticationError.
var ErrAuthentication = errors.New("authentication failed")

// ErrSessionExpired is returned when an expired access token could not be
// refreshed (no refresh token stored, or the refresh call failed).
// The session has already been cleared when this error is returned;
// callers should send the user back to login.
var ErrSessionExpired = errors.New("session expired")

// ErrMalformedResponse is returned when an upstream payload fails schema
// validation at the API client boundary.
var ErrMalformedResponse = errors.New("malformed response")

// ErrForbidden is returned when the caller lacks the role for an operation.
var ErrForbidden = errors.New("forbidden")

// AuthenticationError reports rejected credentials on login or register.
// Message is the server-provided text, surfaced verbatim.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

func (e *AuthenticationError) Unwrap() error { return ErrAuthentication }

// APIError is a non-2xx response, or a transport failure when Status is 0.
// Message holds the server's "error" or "detail" field when one was sent,
// otherwise a generic fallback.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "network error: " + e.Message
	}
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

// Unwrap exposes ErrNotFound and ErrForbidden for the matching status codes
// so callers can use errors.Is without inspecting Status.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrForbidden
	}
	return e.Err
}
