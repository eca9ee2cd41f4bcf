package transport

import (
	"errors"
	"fmt"
)

// Domain errors for transport operations, designed for error wrapping and
// classification with errors.Is.
//
// Error classification strategy:
// - ErrInvalidRequest: malformed caller input, never retried
// - ErrRequestTimeout: the local timer preempted the call, retryable
// - ErrNetwork: the server never answered, retryable
var (
	ErrInvalidRequest = errors.New("transport: invalid request")
	ErrRequestTimeout = errors.New("transport: request timed out")
	ErrNetwork        = errors.New("transport: network failure")
)

// HTTPError represents a retryable non-2xx response. It is passed to the
// OnRetry hook so observers can see why an attempt is being retried; it is
// never returned from Send, which hands back the raw Response instead.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("transport: unexpected status %d", e.StatusCode)
}
