package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/recipebox/internal/shared"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// NetworkError: the request never produced a response (DNS, refused, timeout, cancelled).
	NetworkError ErrorKind = iota
	// NotFound: the backend answered 404, or a single-record lookup came back empty.
	NotFound
	// ServerError: any other non-2xx answer, or a body that could not be decoded.
	ServerError
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "NetworkError"
	case NotFound:
		return "NotFound"
	case ServerError:
		return "ServerError"
	default:
		return "UnknownError"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case NetworkError:
		return shared.ErrNetwork
	case NotFound:
		return shared.ErrNotFound
	default:
		return shared.ErrServer
	}
}

// APIError is returned by [RecipeService] for every failed call.
//
// errors.Is matches the kind's sentinel ([shared.ErrNetwork], [shared.ErrNotFound], [shared.ErrServer]) and the wrapped cause.
type APIError struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("recipe API %s", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Endpoint != "" {
		msg += " GET " + e.Endpoint
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *APIError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Timeout reports whether the call failed because its deadline passed.
func (e *APIError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// KindOf returns the [ErrorKind] of err and whether err carries one.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func networkError(endpoint string, err error) *APIError {
	return &APIError{Kind: NetworkError, Endpoint: endpoint, Err: err}
}

func statusError(endpoint string, status int, message string) *APIError {
	kind := ServerError
	if status == http.StatusNotFound {
		kind = NotFound
	}
	return &APIError{Kind: kind, Endpoint: endpoint, StatusCode: status, Message: message}
}

func decodeError(endpoint string, status int, err error) *APIError {
	return &APIError{Kind: ServerError, Endpoint: endpoint, StatusCode: status, Message: "malformed response", Err: err}
}
