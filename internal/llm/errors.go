package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Failure kinds. Match them with errors.Is against any error a Completer returns.
var (
	ErrAuth              = errors.New("authentication failed")
	ErrTimeout           = errors.New("request timed out")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed response")
	ErrCanceled          = errors.New("request canceled")
	ErrUnavailable       = errors.New("completion service unavailable")
)

// Error is a classified completion failure.
type Error struct {
	Provider string
	Kind     error
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func malformed(provider, format string, args ...any) *Error {
	return &Error{Provider: provider, Kind: ErrMalformedResponse, Err: fmt.Errorf(format, args...)}
}

// kindForStatus maps an HTTP status code to a failure kind.
func kindForStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrUnavailable
	}
}

// kindForTransport classifies errors that never reached the service.
func kindForTransport(err error) (error, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout, true
	case errors.Is(err, context.Canceled):
		return ErrCanceled, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout, true
	}
	return nil, false
}
