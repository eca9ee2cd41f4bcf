package flags

import (
	"log/slog"
	"time"

	"github.com/lumeno/lumeno-go/pkg/transport"
)

// OnFlagCalled observes every flag evaluation: the key, the subject it was
// evaluated for, and the decision. Invoked once per IsEnabled call,
// regardless of which branch produced the result.
type OnFlagCalled func(key, distinctID string, result bool)

// Option is a functional option for configuring a poller
type Option func(*options)

type options struct {
	host         string
	pollInterval time.Duration
	timeout      time.Duration
	retries      int
	client       *transport.Client
	logger       *slog.Logger
	onFlagCalled OnFlagCalled
}

func defaultOptions() *options {
	return &options{
		host:         DefaultHost,
		pollInterval: DefaultPollInterval,
		timeout:      10 * time.Second,
		retries:      3,
	}
}

// WithHost sets the API host the poller fetches from.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithPollInterval sets how often the background refresh re-fetches the
// flag table.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithTimeout sets the per-request timeout for flag fetches and decide calls.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRetries sets the total attempts per fetch, including the first.
func WithRetries(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.retries = n
		}
	}
}

// WithTransport sets the transport client used for all poller traffic.
// Useful for sharing one client across SDK components or for testing.
func WithTransport(client *transport.Client) Option {
	return func(o *options) {
		if client != nil {
			o.client = client
		}
	}
}

// WithLogger sets the logger for the poller
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOnFlagCalled registers the evaluation observer.
func WithOnFlagCalled(hook OnFlagCalled) Option {
	return func(o *options) {
		o.onFlagCalled = hook
	}
}

// EvalOption is a functional option for a single evaluation
type EvalOption func(*evalOptions)

type evalOptions struct {
	fallback bool
	groups   map[string]string
}

// WithFallback sets the result returned when the flag is unknown, the table
// never loaded, or a remote decide call fails. Defaults to false.
func WithFallback(v bool) EvalOption {
	return func(o *evalOptions) {
		o.fallback = v
	}
}

// WithGroups attaches group memberships forwarded to the decide call for
// flags that use server-side targeting.
func WithGroups(groups map[string]string) EvalOption {
	return func(o *evalOptions) {
		o.groups = groups
	}
}
