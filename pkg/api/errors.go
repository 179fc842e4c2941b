package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call
type Kind int

const (
	// KindTransport means the request never produced a response
	KindTransport Kind = iota
	// KindStatus means the backend answered with a non-2xx status
	KindStatus
	// KindShape means the body could not be decoded into what was expected
	KindShape
)

var (
	// ErrUnauthorized is wrapped by every 401 response
	ErrUnauthorized = errors.New("session expired, please log in again")
	// ErrUnexpectedShape is returned when a collection endpoint does not
	// answer with a JSON array
	ErrUnexpectedShape = errors.New("unexpected response format")
)

// Error is returned by every Client call that fails
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, Message(e))
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message normalizes any error from this package into the single
// human-readable line shown to the admin.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, ErrUnexpectedShape) {
			return "Unexpected response format"
		}
		return err.Error()
	}

	switch apiErr.Kind {
	case KindStatus:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return genericStatusMessage(apiErr.Status)
	case KindShape:
		return "Unexpected response format"
	default:
		if apiErr.Err != nil {
			return apiErr.Err.Error()
		}
		return "Network error"
	}
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func genericStatusMessage(status int) string {
	return fmt.Sprintf("request failed with status %d", status)
}
