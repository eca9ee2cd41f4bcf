// Package flags implements the feature-flag poller: a locally cached table
// of flag definitions refreshed in the background, with deterministic
// hash-based rollout evaluation for simple flags and a remote decide call
// for everything else.
//
// The table is loaded lazily on first evaluation and then re-fetched at the
// polling interval for the lifetime of the poller. Background refresh
// failures are swallowed and the last successfully loaded table keeps
// serving; the one exception is a credential failure (HTTP 401), which is
// fatal and surfaces from an explicit reload. Evaluation never fails for
// network reasons — it degrades to the caller-supplied fallback instead.
//
// # Usage
//
//	p, err := flags.New("project-api-key", "personal-api-key",
//	    flags.WithHost("https://app.lumeno.dev"),
//	    flags.WithPollInterval(5*time.Minute),
//	)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	enabled, err := p.IsEnabled(ctx, "new-dashboard", userID,
//	    flags.WithFallback(false),
//	)
package flags
