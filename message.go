package lumeno

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumeno/lumeno-go/pkg/dispatch"
)

// Properties are arbitrary key-value pairs attached to an event.
type Properties map[string]any

// Message is the pre-built wire envelope the dispatch queue consumes.
type Message = dispatch.Message

// Callback observes the terminal delivery outcome of one message.
type Callback = dispatch.Callback

// Capture is one user-action event. The client turns it into the wire
// envelope; everything past these fields is opaque to the SDK.
type Capture struct {
	// DistinctID identifies the subject the event belongs to. Required.
	DistinctID string

	// Event is the action name. Required.
	Event string

	// Properties are attached to the event unchanged.
	Properties Properties

	// Timestamp defaults to now when zero.
	Timestamp time.Time

	// Callback fires exactly once when the event's batch settles.
	Callback Callback
}

// envelope builds the wire message. Each message gets a client-generated
// uuid so the server can deduplicate redelivered batches.
func (c Capture) envelope() dispatch.Message {
	ts := c.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	msg := dispatch.Message{
		"type":        "capture",
		"event":       c.Event,
		"distinct_id": c.DistinctID,
		"timestamp":   ts.Format(time.RFC3339),
		"message_id":  uuid.NewString(),
	}
	if len(c.Properties) > 0 {
		msg["properties"] = map[string]any(c.Properties)
	}
	return msg
}

func (c Capture) validate() error {
	if c.Event == "" {
		return ErrEventRequired
	}
	if c.DistinctID == "" {
		return ErrDistinctIDRequired
	}
	return nil
}
