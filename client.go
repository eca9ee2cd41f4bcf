package lumeno

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lumeno/lumeno-go/pkg/dispatch"
	"github.com/lumeno/lumeno-go/pkg/flags"
	"github.com/lumeno/lumeno-go/pkg/transport"
)

// Option configures the client.
type Option func(*clientOptions)

type clientOptions struct {
	logger       *slog.Logger
	transport    *transport.Client
	onFlagCalled flags.OnFlagCalled
}

// WithLogger sets the logger all SDK components log through.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport sets the HTTP transport shared by the dispatch queue and
// the flag poller. Useful for proxies or testing.
func WithTransport(client *transport.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.transport = client
		}
	}
}

// WithOnFlagCalled registers an observer invoked once per flag evaluation
// with the key, the subject, and the decision.
func WithOnFlagCalled(hook flags.OnFlagCalled) Option {
	return func(o *clientOptions) {
		o.onFlagCalled = hook
	}
}

// Client is the Lumeno SDK entry point. Safe for concurrent use.
type Client struct {
	cfg    Config
	queue  *dispatch.Queue
	poller *flags.Poller
	logger *slog.Logger
}

// New creates a client. The feature flag poller is wired only when the
// config carries a personal API key; flag operations on a client without
// one return ErrFeatureFlagsNotConfigured.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	cfg = cfg.withDefaults()

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	// One pooled transport for batches, flag fetches, and decide calls.
	tc := options.transport
	if tc == nil {
		tc = transport.NewClient()
	}

	queue, err := dispatch.New(cfg.APIKey,
		dispatch.WithHost(cfg.Host),
		dispatch.WithFlushAt(cfg.FlushAt),
		dispatch.WithFlushInterval(cfg.FlushInterval),
		dispatch.WithTimeout(cfg.Timeout),
		dispatch.WithRetries(cfg.Retries),
		dispatch.WithDisabled(cfg.Disabled),
		dispatch.WithTransport(tc),
		dispatch.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	var poller *flags.Poller
	if cfg.PersonalAPIKey != "" {
		poller, err = flags.New(cfg.APIKey, cfg.PersonalAPIKey,
			flags.WithHost(cfg.Host),
			flags.WithPollInterval(cfg.PollInterval),
			flags.WithTimeout(cfg.Timeout),
			flags.WithTransport(tc),
			flags.WithLogger(logger),
			flags.WithOnFlagCalled(options.onFlagCalled),
		)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		cfg:    cfg,
		queue:  queue,
		poller: poller,
		logger: logger,
	}, nil
}

// Capture enqueues one user-action event for batched delivery. It is
// fire-and-forget: only validation errors are returned, delivery failures
// reach the optional callback.
func (c *Client) Capture(capture Capture) error {
	if err := capture.validate(); err != nil {
		return err
	}
	return c.queue.Enqueue(capture.envelope(), capture.Callback)
}

// Enqueue hands a pre-built wire message to the dispatch queue, bypassing
// envelope construction. For callers that shape their own messages.
func (c *Client) Enqueue(msg dispatch.Message, cb Callback) error {
	return c.queue.Enqueue(msg, cb)
}

// Flush delivers everything currently buffered and waits for the result.
func (c *Client) Flush(ctx context.Context) error {
	for {
		_, err := c.queue.Flush(ctx).Await()
		if err != nil {
			return err
		}
		if c.queue.Len() == 0 {
			return nil
		}
	}
}

// IsFeatureEnabled evaluates a feature flag for one subject, returning
// fallback when the flag is unknown or any network path fails. groups may
// be nil.
func (c *Client) IsFeatureEnabled(ctx context.Context, key, distinctID string, fallback bool, groups map[string]string) (bool, error) {
	if c.poller == nil {
		return fallback, ErrFeatureFlagsNotConfigured
	}
	return c.poller.IsEnabled(ctx, key, distinctID,
		flags.WithFallback(fallback),
		flags.WithGroups(groups),
	)
}

// ReloadFeatureFlags forces a synchronous refresh of the flag table.
// A credential failure is returned; transient failures are too, but the
// previously loaded table keeps serving either way.
func (c *Client) ReloadFeatureFlags(ctx context.Context) error {
	if c.poller == nil {
		return ErrFeatureFlagsNotConfigured
	}
	return c.poller.Load(ctx, true)
}

// Close drains the queue, stops both background timers, and releases the
// client. In-flight calls settle asynchronously and are discarded.
func (c *Client) Close() error {
	var errs []error
	if c.poller != nil {
		errs = append(errs, c.poller.Close())
	}
	errs = append(errs, c.queue.Close())
	return errors.Join(errs...)
}
