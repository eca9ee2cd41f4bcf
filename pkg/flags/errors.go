package flags

import "errors"

// Domain errors for flag operations.
//
// Error classification strategy:
// - Validation errors: malformed caller input, rejected before any network call
// - ErrInvalidAPIKey: fatal, the credential is wrong and retrying cannot help
// - ErrFetchFailed: transient, the last loaded table keeps serving
var (
	// ErrProjectAPIKeyRequired is returned when constructing a poller without a project API key
	ErrProjectAPIKeyRequired = errors.New("flags: project API key is required")

	// ErrPersonalAPIKeyRequired is returned when constructing a poller without a personal API key
	ErrPersonalAPIKeyRequired = errors.New("flags: personal API key is required for feature flag operations")

	// ErrKeyRequired is returned when evaluating with an empty flag key
	ErrKeyRequired = errors.New("flags: flag key is required")

	// ErrDistinctIDRequired is returned when evaluating with an empty distinct id
	ErrDistinctIDRequired = errors.New("flags: distinct id is required")

	// ErrInvalidAPIKey indicates the personal API key was rejected by the server.
	// This is fatal: the caller's credential is wrong.
	ErrInvalidAPIKey = errors.New("flags: personal API key is invalid (authentication failed)")

	// ErrFetchFailed indicates a transient failure refreshing the flag table
	ErrFetchFailed = errors.New("flags: failed to fetch feature flag definitions")

	// ErrPollerClosed is returned when using a poller after Close
	ErrPollerClosed = errors.New("flags: poller is closed")
)

// errorClass partitions refresh failures for the polling loop: fatal errors
// are surfaced, transient ones are swallowed and the stale table retained.
type errorClass int

const (
	classTransient errorClass = iota
	classFatal
)

// classify maps a refresh failure onto the closed set of error classes the
// polling loop switches on.
func classify(err error) errorClass {
	if errors.Is(err, ErrInvalidAPIKey) {
		return classFatal
	}
	return classTransient
}
