package sdk

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx response whose body could not be used
var ErrMalformedResponse = errors.New("malformed response")

// TransportError describes a failed outbound call: a network failure, a non-2xx
// status or an unusable body
type TransportError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when no response was received
	Body       string // truncated response body for non-2xx statuses
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("[BACKEND]: backend '%s %s' failed: %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("[BACKEND]: backend '%s %s' failed: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("[BACKEND]: backend '%s %s' failed: %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is (or wraps) a *TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// malformed builds the error returned when a decoded body breaks its contract
func malformed(method, path, reason string) error {
	return &TransportError{Method: method, Path: path, Err: fmt.Errorf("%w: %s", ErrMalformedResponse, reason)}
}
