// Package transport provides the resilient HTTP layer every Lumeno network
// call passes through: per-request timeouts, automatic retries with
// exponential backoff and jitter, and Retry-After honoring.
//
// This is a low-level utility package without business logic. The dispatch
// queue and the feature-flag poller both deliver through a single shared
// Client so retry behavior stays consistent across the SDK.
//
// # Key Features
//
// - Typed Response result instead of ad hoc error probing
// - Retries on 429 and 5xx with exponential backoff and optional jitter
// - Integer Retry-After header honoring with a configurable cap
// - Immediate bail-out on malformed requests without consuming an attempt
// - Retry hooks for metrics and logging
//
// # Basic Usage
//
//	client := transport.NewClient()
//
//	resp, err := client.Send(ctx, "https://app.lumeno.dev/batch/",
//	    http.MethodPost, payload,
//	    transport.WithTimeout(10*time.Second),
//	    transport.WithRetries(5),
//	)
//
// On retry exhaustion the last response the server produced is returned
// as-is; callers inspect Response.OK() rather than the error to decide
// whether delivery succeeded. An error is returned only when the server
// never answered (network failure, timeout) or the request itself was
// malformed.
package transport
