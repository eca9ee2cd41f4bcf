package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lumeno/lumeno-go/pkg/async"
	"github.com/lumeno/lumeno-go/pkg/transport"
)

// Defaults for the flush triggering policy.
const (
	DefaultHost          = "https://app.lumeno.dev"
	DefaultFlushAt       = 20
	DefaultFlushInterval = 10 * time.Second
	DefaultMaxBatchSize  = 100
)

// Message is one telemetry event. The queue treats it as opaque beyond
// serializing it into the batch payload; callers must not mutate it after
// enqueueing.
type Message map[string]any

// Callback observes the terminal outcome of one enqueued message: err is nil
// when the batch containing it was delivered, non-nil when delivery failed
// after the transport exhausted its retries.
type Callback func(msg Message, err error)

// BatchResult summarizes one flush.
type BatchResult struct {
	// Delivered is the number of messages settled by this flush.
	Delivered int
}

type queuedItem struct {
	message  Message
	callback Callback
}

// batchPayload is the wire shape of one delivery.
type batchPayload struct {
	APIKey string    `json:"api_key"`
	Batch  []Message `json:"batch"`
}

// Queue buffers telemetry events and flushes them in batches.
// Safe for concurrent use.
type Queue struct {
	apiKey        string
	endpoint      string
	flushAt       int
	flushInterval time.Duration
	maxBatchSize  int
	disabled      bool
	client        *transport.Client
	logger        *slog.Logger

	timeout time.Duration
	retries int

	mu       sync.Mutex
	items    []queuedItem
	first    bool // no flush has run yet; the next enqueue flushes immediately
	flushing bool
	rerun    bool
	inflight *async.Future[BatchResult]
	timer    *time.Timer
	closed   bool
}

// New creates a dispatch queue for the given project API key.
func New(apiKey string, opts ...Option) (*Queue, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		client = transport.NewClient()
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Queue{
		apiKey:        apiKey,
		endpoint:      options.host + "/batch/",
		flushAt:       options.flushAt,
		flushInterval: options.flushInterval,
		maxBatchSize:  options.maxBatchSize,
		disabled:      options.disabled,
		client:        client,
		logger:        logger,
		timeout:       options.timeout,
		retries:       options.retries,
		first:         true,
	}, nil
}

// Enqueue appends a message to the buffer and returns immediately. The
// optional callback fires exactly once when the message's batch settles.
//
// The first enqueue of a queue's lifetime triggers an immediate flush, so
// short-lived processes deliver at least their first event without waiting
// for the interval timer. After that, a flush triggers when the buffer
// reaches the configured threshold, or when the interval timer armed by the
// first enqueue of an idle period fires.
func (q *Queue) Enqueue(msg Message, cb Callback) error {
	if msg == nil {
		return ErrMessageNil
	}

	if q.disabled {
		// Callbacks still fire so callers can keep their bookkeeping,
		// but nothing is buffered or sent.
		if cb != nil {
			go cb(msg, nil)
		}
		return nil
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	q.items = append(q.items, queuedItem{message: msg, callback: cb})
	size := len(q.items)

	switch {
	case q.first:
		q.first = false
		q.flushLocked(context.Background())
	case size >= q.flushAt:
		q.flushLocked(context.Background())
	case q.timer == nil:
		// One pending flush timer at a time; later enqueues must not
		// push the deadline back.
		q.timer = time.AfterFunc(q.flushInterval, q.timerFlush)
	}
	q.mu.Unlock()

	return nil
}

// Len reports how many messages are currently buffered.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Flush delivers the oldest buffered messages (up to the batch size cap) and
// returns a future for the result. Flushing an empty buffer is a no-op that
// resolves immediately without a network call. If a flush is already in
// flight its future is returned and the remaining buffer is flushed right
// after it settles.
func (q *Queue) Flush(ctx context.Context) *async.Future[BatchResult] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushLocked(ctx)
}

// flushLocked starts a flush. Caller must hold q.mu.
func (q *Queue) flushLocked(ctx context.Context) *async.Future[BatchResult] {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}

	if q.disabled || len(q.items) == 0 {
		return async.Completed(BatchResult{}, nil)
	}

	if q.flushing {
		// One in-flight flush at a time. Remember that more work arrived
		// so the remainder is drained once the current flush settles.
		q.rerun = true
		return q.inflight
	}

	n := len(q.items)
	if n > q.maxBatchSize {
		n = q.maxBatchSize
	}
	batch := make([]queuedItem, n)
	copy(batch, q.items[:n])

	q.flushing = true
	// The control context is always Background so deliver runs and resets
	// the flushing state even when the caller's context is already done;
	// the caller's context still bounds the network call itself.
	q.inflight = async.Async(context.Background(), batch, func(_ context.Context, b []queuedItem) (BatchResult, error) {
		return q.deliver(ctx, b)
	})
	return q.inflight
}

// timerFlush is invoked by the interval timer.
func (q *Queue) timerFlush() {
	q.mu.Lock()
	q.timer = nil
	if !q.closed {
		q.flushLocked(context.Background())
	}
	q.mu.Unlock()
}

// deliver ships one batch and settles its callbacks. Runs outside the lock;
// exactly one deliver is active at a time.
func (q *Queue) deliver(ctx context.Context, batch []queuedItem) (BatchResult, error) {
	sendErr := q.send(ctx, batch)

	q.mu.Lock()
	// The batch is a prefix snapshot and only deliver removes items, so the
	// first len(batch) entries are still ours.
	q.items = q.items[len(batch):]
	q.flushing = false
	rerun := q.rerun && len(q.items) > 0
	q.rerun = false
	q.mu.Unlock()

	// Callbacks fire in strict enqueue order, after removal, so a callback
	// that re-enqueues cannot observe its own message still buffered.
	for _, item := range batch {
		if item.callback != nil {
			item.callback(item.message, sendErr)
		}
	}

	if rerun {
		q.mu.Lock()
		q.flushLocked(context.Background())
		q.mu.Unlock()
	}

	if sendErr != nil {
		q.logger.Error("batch delivery failed",
			slog.Int("batch_size", len(batch)),
			slog.String("error", sendErr.Error()))
		return BatchResult{Delivered: len(batch)}, sendErr
	}

	q.logger.Debug("batch delivered", slog.Int("batch_size", len(batch)))
	return BatchResult{Delivered: len(batch)}, nil
}

// send performs the network delivery of one batch.
func (q *Queue) send(ctx context.Context, batch []queuedItem) error {
	messages := make([]Message, len(batch))
	for i, item := range batch {
		messages[i] = item.message
	}

	body, err := json.Marshal(batchPayload{APIKey: q.apiKey, Batch: messages})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMessageMarshal, err)
	}

	resp, err := q.client.Send(ctx, q.endpoint, http.MethodPost, body,
		transport.WithTimeout(q.timeout),
		transport.WithRetries(q.retries),
		transport.WithOnRetry(func(err error) {
			q.logger.Debug("retrying batch delivery", slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &DeliveryError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}
	return nil
}

// Close stops the flush timer, drains the buffer, and waits for in-flight
// delivery to settle. The queue rejects enqueues afterwards.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.mu.Unlock()

	for {
		q.mu.Lock()
		done := len(q.items) == 0 && !q.flushing
		var fut *async.Future[BatchResult]
		if !done {
			fut = q.flushLocked(context.Background())
		}
		q.mu.Unlock()

		if done {
			return nil
		}
		// Delivery errors were already handed to the item callbacks.
		_, _ = fut.Await()
	}
}

// serverMessage extracts the {"error":{"message":...}} diagnostic some
// rejection responses carry.
func serverMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}
