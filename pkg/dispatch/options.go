package dispatch

import (
	"log/slog"
	"time"

	"github.com/lumeno/lumeno-go/pkg/transport"
)

// Option is a functional option for configuring a queue
type Option func(*options)

type options struct {
	host          string
	flushAt       int
	flushInterval time.Duration
	maxBatchSize  int
	timeout       time.Duration
	retries       int
	disabled      bool
	client        *transport.Client
	logger        *slog.Logger
}

func defaultOptions() *options {
	return &options{
		host:          DefaultHost,
		flushAt:       DefaultFlushAt,
		flushInterval: DefaultFlushInterval,
		maxBatchSize:  DefaultMaxBatchSize,
		timeout:       10 * time.Second,
		retries:       5,
	}
}

// WithHost sets the collection endpoint host.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithFlushAt sets the buffer size that triggers a flush.
// Values below 1 are clamped to 1 so a misconfigured threshold of 0
// cannot stall the queue forever.
func WithFlushAt(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.flushAt = n
	}
}

// WithFlushInterval sets how long the queue waits before flushing a
// partially filled buffer.
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.flushInterval = d
		}
	}
}

// WithMaxBatchSize caps how many events a single flush drains.
// Events beyond the cap stay buffered for the next flush.
func WithMaxBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBatchSize = n
		}
	}
}

// WithTimeout sets the per-request timeout for batch delivery.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRetries sets the total delivery attempts per batch, including the first.
func WithRetries(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.retries = n
		}
	}
}

// WithDisabled turns the queue into a no-op: callbacks still fire with
// success but nothing is buffered or sent. Used for test environments.
func WithDisabled(disabled bool) Option {
	return func(o *options) {
		o.disabled = disabled
	}
}

// WithTransport sets the transport client used for batch delivery.
// Useful for sharing one client across SDK components or for testing.
func WithTransport(client *transport.Client) Option {
	return func(o *options) {
		if client != nil {
			o.client = client
		}
	}
}

// WithLogger sets the logger for the queue
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
