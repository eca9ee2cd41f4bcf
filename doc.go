// Package lumeno is the Go client for Lumeno analytics.
//
// The client accepts discrete telemetry events, buffers them in memory, and
// ships them in batches to the collection endpoint, retrying with backoff on
// transient failures. It also maintains a locally cached table of feature
// flag definitions refreshed by background polling, evaluated per request
// either with a deterministic rollout hash or a remote decide call.
//
// # Usage
//
//	client, err := lumeno.New(lumeno.Config{
//	    APIKey:         "project-api-key",
//	    PersonalAPIKey: "personal-api-key", // only for feature flags
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.Capture(lumeno.Capture{
//	    DistinctID: "user-42",
//	    Event:      "report exported",
//	    Properties: map[string]any{"format": "pdf"},
//	})
//
//	enabled, err := client.IsFeatureEnabled(ctx, "new-dashboard", "user-42", false, nil)
//
// Event delivery is fire-and-forget: failures surface through the optional
// per-event callback, never as a panic or an error from Capture. Flag
// evaluation degrades to the supplied fallback on any network failure.
//
// The heavy lifting lives in the pkg subpackages: pkg/transport (resilient
// HTTP), pkg/dispatch (batching queue), and pkg/flags (flag poller). The
// root package is a thin envelope-building layer over them.
package lumeno
