package dispatch

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrAPIKeyRequired is returned when constructing a queue without a project API key
	ErrAPIKeyRequired = errors.New("dispatch: project API key is required")

	// ErrMessageNil is returned when attempting to enqueue a nil message
	ErrMessageNil = errors.New("dispatch: message cannot be nil")

	// ErrQueueClosed is returned when enqueueing after Close
	ErrQueueClosed = errors.New("dispatch: queue is closed")

	// ErrMessageMarshal is returned when batch payload marshaling fails
	ErrMessageMarshal = errors.New("dispatch: failed to marshal batch payload")
)

// DeliveryError describes a batch the server rejected after the transport
// exhausted its retries. Message carries the server-side diagnostic when the
// response body included one.
type DeliveryError struct {
	StatusCode int
	Message    string
}

func (e *DeliveryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dispatch: batch rejected with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("dispatch: batch rejected with status %d", e.StatusCode)
}
