package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/marquee/internal/shared"
)

// Kind classifies a failed request.
type Kind int

const (
	KindNetwork Kind = iota
	KindAuth
	KindValidation
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "server"
	}
}

// APIError describes a failed backend call.
type APIError struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int    // zero for transport failures
	Message    string // backend-provided message, if any
	Err        error  // underlying transport or decode error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v: %s", e.Method, e.Path, e.sentinel(), msg)
	}
	return fmt.Sprintf("%s %s: %v (status %d): %s", e.Method, e.Path, e.sentinel(), e.StatusCode, msg)
}

// Unwrap exposes the shared sentinel for the error's kind and the underlying cause.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *APIError) sentinel() error {
	switch e.Kind {
	case KindNetwork:
		return shared.ErrServiceUnavailable
	case KindAuth:
		return shared.ErrAuthFailed
	case KindValidation:
		return shared.ErrValidation
	case KindNotFound:
		return shared.ErrNotFound
	default:
		return shared.ErrAPIRequest
	}
}

// kindForStatus maps a non-2xx status code to a [Kind].
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// Message returns the backend-provided message carried by err, or fallback when there is none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// KindOf returns the [Kind] of err and whether err is an [*APIError].
func KindOf(err error) (Kind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindServer, false
}
