package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/lumeno/lumeno-go/pkg/transport"
)

// Defaults for the polling policy.
const (
	DefaultHost         = "https://app.lumeno.dev"
	DefaultPollInterval = 5 * time.Minute
)

// Poller holds the locally cached feature flag table and keeps it fresh.
// Safe for concurrent use.
type Poller struct {
	projectAPIKey  string
	personalAPIKey string
	host           string
	pollInterval   time.Duration
	timeout        time.Duration
	retries        int
	client         *transport.Client
	logger         *slog.Logger
	onFlagCalled   OnFlagCalled

	mu         sync.RWMutex
	flags      []Flag
	loadedOnce bool
	started    bool
	closed     bool
	// timer is the single outstanding refresh task; rescheduling always
	// cancels it first so re-entrant reloads cannot double-schedule.
	timer *time.Timer
}

// New creates a flag poller. The personal API key authenticates the listing
// endpoint and is required for all flag operations.
func New(projectAPIKey, personalAPIKey string, opts ...Option) (*Poller, error) {
	if projectAPIKey == "" {
		return nil, ErrProjectAPIKeyRequired
	}
	if personalAPIKey == "" {
		return nil, ErrPersonalAPIKeyRequired
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

	return &Poller{
		projectAPIKey:  projectAPIKey,
		personalAPIKey: personalAPIKey,
		host:           options.host,
		pollInterval:   options.pollInterval,
		timeout:        options.timeout,
		retries:        options.retries,
		client:         client,
		logger:         logger,
		onFlagCalled:   options.onFlagCalled,
	}, nil
}

// IsEnabled evaluates a flag for one subject. Unknown flags, a table that
// never loaded, and failed decide calls all yield the fallback; evaluation
// never fails for network reasons. Only malformed input produces an error.
func (p *Poller) IsEnabled(ctx context.Context, key, distinctID string, opts ...EvalOption) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	if distinctID == "" {
		return false, ErrDistinctIDRequired
	}

	eval := &evalOptions{}
	for _, opt := range opts {
		opt(eval)
	}

	p.ensureLoaded(ctx)

	result := eval.fallback
	if flag, ok := p.lookup(key); ok {
		if flag.IsSimpleFlag {
			var percentage float64
			if flag.RolloutPercentage != nil {
				percentage = *flag.RolloutPercentage
			}
			result = enabledForRollout(key, distinctID, percentage)
		} else {
			result = p.decide(ctx, key, distinctID, eval.groups, eval.fallback)
		}
	}

	if p.onFlagCalled != nil {
		p.onFlagCalled(key, distinctID, result)
	}

	return result, nil
}

// Load fetches the flag table. Without forceReload it is a no-op once a
// previous load has succeeded; failed loads are retried by the next caller.
// A 401 from the listing endpoint is fatal and always returned, any other
// failure is returned as a transient ErrFetchFailed.
func (p *Poller) Load(ctx context.Context, forceReload bool) error {
	p.mu.RLock()
	if p.loadedOnce && !forceReload {
		p.mu.RUnlock()
		return nil
	}
	p.mu.RUnlock()

	endpoint := p.host + "/api/feature_flag/?token=" + url.QueryEscape(p.projectAPIKey)
	resp, err := p.client.Send(ctx, endpoint, http.MethodGet, nil,
		transport.WithTimeout(p.timeout),
		transport.WithRetries(p.retries),
		transport.WithHeader("Authorization", "Bearer "+p.personalAPIKey),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidAPIKey
	}
	if !resp.OK() {
		return fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	var parsed struct {
		Results []Flag `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrFetchFailed, err)
	}

	// Only active flags are retained; an inactive flag must look exactly
	// like a missing one. The table is replaced wholesale, never merged.
	active := make([]Flag, 0, len(parsed.Results))
	for _, f := range parsed.Results {
		if f.Active {
			active = append(active, f)
		}
	}

	p.mu.Lock()
	p.flags = active
	p.loadedOnce = true
	p.mu.Unlock()

	p.logger.Debug("feature flag table refreshed", slog.Int("flags", len(active)))
	return nil
}

// Close cancels the background refresh. An in-flight fetch is allowed to
// settle on its own; its result is discarded.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	return nil
}

// ensureLoaded performs the lazy one-time load and starts background
// polling on first use. Load failures are swallowed here: the caller's
// evaluation degrades to its fallback instead.
func (p *Poller) ensureLoaded(ctx context.Context) {
	p.mu.Lock()
	loaded := p.loadedOnce
	start := !p.started && !p.closed
	p.started = p.started || start
	p.mu.Unlock()

	if !loaded {
		if err := p.Load(ctx, false); err != nil {
			p.logger.Debug("initial feature flag load failed",
				slog.String("error", err.Error()))
		}
	}
	if start {
		p.schedule()
	}
}

// schedule arms the refresh timer, cancelling any outstanding one first.
func (p *Poller) schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.pollInterval, p.poll)
}

// poll is the background refresh. Every failure is swallowed — the stale
// table keeps serving — and the timer is re-armed after every attempt so a
// transient failure never stops future polling.
func (p *Poller) poll() {
	err := p.Load(context.Background(), true)
	if err != nil {
		switch classify(err) {
		case classFatal:
			p.logger.Error("feature flag refresh failed",
				slog.String("error", err.Error()))
		default:
			p.logger.Debug("feature flag refresh failed",
				slog.String("error", err.Error()))
		}
	}
	p.schedule()
}

// lookup scans the table for an active definition. Returns false when the
// table never loaded successfully, which callers treat as flag-not-found.
func (p *Poller) lookup(key string) (Flag, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.loadedOnce {
		return Flag{}, false
	}
	for _, f := range p.flags {
		if f.Key == key {
			return f, true
		}
	}
	return Flag{}, false
}

type decideRequest struct {
	Token      string            `json:"token"`
	DistinctID string            `json:"distinct_id"`
	Groups     map[string]string `json:"groups"`
}

type decideResponse struct {
	FeatureFlags []string `json:"featureFlags"`
}

// decide issues the remote evaluation call for flags that need server-side
// targeting. Any failure degrades to the fallback rather than propagating.
func (p *Poller) decide(ctx context.Context, key, distinctID string, groups map[string]string, fallback bool) bool {
	if groups == nil {
		groups = map[string]string{}
	}
	body, err := json.Marshal(decideRequest{
		Token:      p.projectAPIKey,
		DistinctID: distinctID,
		Groups:     groups,
	})
	if err != nil {
		return fallback
	}

	resp, err := p.client.Send(ctx, p.host+"/decide/", http.MethodPost, body,
		transport.WithTimeout(p.timeout),
		transport.WithRetries(p.retries),
	)
	if err != nil || !resp.OK() {
		p.logger.Debug("decide call failed, using fallback",
			slog.String("key", key))
		return fallback
	}

	var parsed decideResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return fallback
	}

	for _, k := range parsed.FeatureFlags {
		if k == key {
			return true
		}
	}
	return false
}
