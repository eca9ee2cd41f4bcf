package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Response is the typed result of a send. It is returned for every request
// the server actually answered, including non-2xx statuses, so callers switch
// on a closed set of outcomes instead of probing loosely-typed errors.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client provides resilient HTTP delivery with timeouts and retries.
// Zero value is not usable; use NewClient to create instances.
type Client struct {
	// client is reused across requests for connection pooling and performance
	client *http.Client
}

// NewClient creates a transport client with the default HTTP client.
// Connection pooling is configured for steady event traffic to a single
// collection host while preventing connection leaks.
func NewClient() *Client {
	return &Client{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithHTTPClient creates a transport client with a custom HTTP
// client. This allows for custom transports, proxies, or testing.
func NewClientWithHTTPClient(client *http.Client) *Client {
	if client == nil {
		return NewClient()
	}
	return &Client{client: client}
}

// Send delivers body to targetURL with retry logic and returns the response.
//
// Retry rules: a 429 or 5xx status and network-level failures (including
// local timeouts) are retried with backoff; any other status returns
// immediately. When a retryable response carries an integer Retry-After
// header, that delay replaces the computed backoff unless it exceeds the
// configured cap, in which case the response is returned to the caller as-is.
// On exhausting all attempts the last response received is returned, not a
// synthetic error; an error comes back only when the server never answered
// or the request could not be built at all.
func (c *Client) Send(ctx context.Context, targetURL, method string, body []byte, opts ...SendOption) (*Response, error) {
	if err := validateRequest(targetURL, method); err != nil {
		return nil, err
	}

	options := defaultSendOptions()
	for _, opt := range opts {
		opt(options)
	}

	// Allow per-request client override for testing or custom transports
	client := c.client
	if options.httpClient != nil {
		client = options.httpClient
	}

	var (
		lastResp *Response
		lastErr  error
		// Retry-After override for the next attempt; zero means use backoff.
		retryAfter time.Duration
	)

	for attempt := 1; attempt <= options.retries; attempt++ {
		if attempt > 1 {
			delay := options.backoffStrategy.NextInterval(attempt - 1)
			if retryAfter > 0 {
				delay = retryAfter
				retryAfter = 0
			}
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
			case <-time.After(delay):
			}
		}

		resp, err := c.attempt(ctx, client, targetURL, method, body, options)
		if err != nil {
			// A malformed request is a caller bug; bail without
			// consuming the remaining attempts.
			if errors.Is(err, ErrInvalidRequest) {
				return nil, err
			}
			lastResp, lastErr = nil, err
			if attempt < options.retries && options.onRetry != nil {
				options.onRetry(err)
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastResp, lastErr = resp, nil

		if d, ok := parseRetryAfter(resp.Header); ok {
			if d > options.maxRetryAfter {
				// The server demands a longer pause than we tolerate;
				// give up and hand the response back unmodified.
				return resp, nil
			}
			retryAfter = d
		}

		if attempt < options.retries && options.onRetry != nil {
			options.onRetry(&HTTPError{StatusCode: resp.StatusCode, Body: resp.Body})
		}
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// attempt makes a single HTTP request with timeout and error classification.
func (c *Client) attempt(ctx context.Context, client *http.Client, targetURL, method string, body []byte, options *sendOptions) (*Response, error) {
	reqCtx := ctx
	if options.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, options.timeout)
		defer cancel()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, targetURL, reader)
	if err != nil {
		// Request construction failures are caller bugs; bail immediately
		// without consuming a retry attempt.
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lumeno-go/1.0")
	for k, v := range options.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %w", ErrRequestTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 64KB limit prevents memory exhaustion on hostile or broken servers
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1024*64))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrNetwork, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// validateRequest performs early validation to fail fast on obvious errors
func validateRequest(targetURL, method string) error {
	if targetURL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidRequest)
	}

	u, err := url.Parse(targetURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidRequest)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidRequest)
	}

	if method == "" {
		return fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}

	return nil
}

// retryableStatus reports whether a status warrants another attempt:
// rate limiting (429) or any server-side failure (5xx).
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// parseRetryAfter extracts an integer Retry-After value in seconds.
// HTTP-date format is not supported and is treated as absent.
func parseRetryAfter(h http.Header) (time.Duration, bool) {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
