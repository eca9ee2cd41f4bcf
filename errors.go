package lumeno

import "errors"

// Validation errors surface synchronously from the public API before any
// network call. Delivery and flag-refresh failures never appear here; they
// flow through per-event callbacks and fallbacks instead.
var (
	// ErrAPIKeyRequired is returned when constructing a client without a project API key
	ErrAPIKeyRequired = errors.New("lumeno: project API key is required")

	// ErrEventRequired is returned when capturing a message without an event name
	ErrEventRequired = errors.New("lumeno: event name is required")

	// ErrDistinctIDRequired is returned when capturing or evaluating without a distinct id
	ErrDistinctIDRequired = errors.New("lumeno: distinct id is required")

	// ErrFeatureFlagsNotConfigured is returned when calling a flag operation
	// on a client constructed without a personal API key
	ErrFeatureFlagsNotConfigured = errors.New("lumeno: feature flags require a personal API key")
)
