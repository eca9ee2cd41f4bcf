package transport

import (
	"net/http"
	"time"
)

// RetryHook is called once per attempt that is about to be retried.
// It receives the failure that triggered the retry and is purely
// informational; it must not affect control flow.
type RetryHook func(err error)

// sendOptions contains all configurable options for a single send operation
type sendOptions struct {
	timeout time.Duration
	headers map[string]string

	retries         int
	backoffStrategy BackoffStrategy
	maxRetryAfter   time.Duration

	httpClient *http.Client

	onRetry RetryHook
}

// defaultSendOptions returns options with the SDK defaults
func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout:         10 * time.Second,
		headers:         make(map[string]string),
		retries:         5,
		backoffStrategy: DefaultBackoffStrategy(),
		maxRetryAfter:   20 * time.Second,
	}
}

// SendOption is a functional option for configuring a send
type SendOption func(*sendOptions)

// WithTimeout sets the per-request timeout. A zero or negative value
// disables the timeout entirely and the call runs until the context is done.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		o.timeout = timeout
	}
}

// WithHeader adds a custom header to the request.
// Standard headers like Content-Type are set automatically.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithHeaders adds multiple custom headers to the request.
func WithHeaders(headers map[string]string) SendOption {
	return func(o *sendOptions) {
		for k, v := range headers {
			if k != "" && v != "" {
				o.headers[k] = v
			}
		}
	}
}

// WithRetries sets the total number of attempts, including the first one.
// Default is 5. Set to 1 to disable retries.
func WithRetries(n int) SendOption {
	return func(o *sendOptions) {
		if n >= 1 {
			o.retries = n
		}
	}
}

// WithBackoff sets the backoff strategy for retries.
// Default is exponential backoff with jitter.
func WithBackoff(strategy BackoffStrategy) SendOption {
	return func(o *sendOptions) {
		if strategy != nil {
			o.backoffStrategy = strategy
		}
	}
}

// WithMaxRetryAfter caps the Retry-After header value the client is willing
// to wait for. A retryable response demanding a longer pause is returned to
// the caller as-is instead of being retried. Default is 20 seconds.
func WithMaxRetryAfter(d time.Duration) SendOption {
	return func(o *sendOptions) {
		if d > 0 {
			o.maxRetryAfter = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client for the request.
// Useful for custom transports, proxies, or testing.
func WithHTTPClient(client *http.Client) SendOption {
	return func(o *sendOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithOnRetry sets a hook that's invoked before each retried attempt.
// Useful for logging and metrics.
func WithOnRetry(hook RetryHook) SendOption {
	return func(o *sendOptions) {
		o.onRetry = hook
	}
}
