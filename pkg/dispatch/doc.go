// Package dispatch implements the in-memory event queue that batches
// telemetry events and ships them to the collection endpoint.
//
// Events are appended in order and flushed when one of three triggers fires:
// the very first enqueue (so short-lived processes get their events out),
// the buffer reaching the configured threshold, or a flush interval timer
// armed on the first enqueue of an idle period. At most one flush is in
// flight at a time; each flushed item's callback fires exactly once, with
// nil on delivery and with the error on terminal failure. Failed items are
// not redelivered locally — the transport layer already retried.
//
// # Usage
//
//	q, err := dispatch.New("project-api-key",
//	    dispatch.WithHost("https://app.lumeno.dev"),
//	    dispatch.WithFlushAt(20),
//	    dispatch.WithFlushInterval(10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer q.Close()
//
//	q.Enqueue(dispatch.Message{"event": "signup", "distinct_id": "user-1"}, nil)
package dispatch
