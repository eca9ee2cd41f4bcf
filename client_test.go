package lumeno_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lumeno "github.com/lumeno/lumeno-go"
	"github.com/lumeno/lumeno-go/pkg/flags"
)

// sdkServer fakes the three Lumeno endpoints the SDK talks to.
type sdkServer struct {
	mu      sync.Mutex
	events  []map[string]any
	listing string

	*httptest.Server
}

func newSDKServer(t *testing.T) *sdkServer {
	t.Helper()
	s := &sdkServer{listing: `{"results":[]}`}

	mux := http.NewServeMux()
	mux.HandleFunc("/batch/", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload struct {
			APIKey string           `json:"api_key"`
			Batch  []map[string]any `json:"batch"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "project-key", payload.APIKey)

		s.mu.Lock()
		s.events = append(s.events, payload.Batch...)
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/feature_flag/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer personal-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		listing := s.listing
		s.mu.Unlock()
		_, _ = io.WriteString(w, listing)
	})
	mux.HandleFunc("/decide/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"featureFlags": []string{"server-side"}})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *sdkServer) captured() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.events))
	copy(out, s.events)
	return out
}

func newClient(t *testing.T, server *sdkServer, mutate func(*lumeno.Config)) *lumeno.Client {
	t.Helper()
	cfg := lumeno.Config{
		Host:           server.URL,
		APIKey:         "project-key",
		PersonalAPIKey: "personal-key",
		FlushInterval:  time.Hour,
		PollInterval:   time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := lumeno.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := lumeno.New(lumeno.Config{})
	assert.ErrorIs(t, err, lumeno.ErrAPIKeyRequired)
}

func TestClient_Capture_Validation(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	client := newClient(t, server, nil)

	err := client.Capture(lumeno.Capture{DistinctID: "u"})
	assert.ErrorIs(t, err, lumeno.ErrEventRequired)

	err = client.Capture(lumeno.Capture{Event: "clicked"})
	assert.ErrorIs(t, err, lumeno.ErrDistinctIDRequired)
}

func TestClient_Capture_BuildsEnvelope(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	client := newClient(t, server, nil)

	done := make(chan error, 1)
	err := client.Capture(lumeno.Capture{
		DistinctID: "user-42",
		Event:      "report exported",
		Properties: lumeno.Properties{"format": "pdf"},
		Callback:   func(_ lumeno.Message, err error) { done <- err },
	})
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("capture was never delivered")
	}

	events := server.captured()
	require.Len(t, events, 1)
	evt := events[0]

	assert.Equal(t, "capture", evt["type"])
	assert.Equal(t, "report exported", evt["event"])
	assert.Equal(t, "user-42", evt["distinct_id"])
	assert.Equal(t, map[string]any{"format": "pdf"}, evt["properties"])

	_, err = uuid.Parse(evt["message_id"].(string))
	assert.NoError(t, err, "message id must be a valid uuid")

	_, err = time.Parse(time.RFC3339, evt["timestamp"].(string))
	assert.NoError(t, err)
}

func TestClient_Flush_DrainsEverything(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	client := newClient(t, server, func(cfg *lumeno.Config) {
		cfg.FlushAt = 100
	})

	for i := 0; i < 7; i++ {
		require.NoError(t, client.Capture(lumeno.Capture{
			DistinctID: "u", Event: "tick",
		}))
	}
	require.NoError(t, client.Flush(context.Background()))

	assert.Len(t, server.captured(), 7)
}

func TestClient_IsFeatureEnabled(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	server.mu.Lock()
	server.listing = `{"results":[
		{"key":"a","is_simple_flag":true,"rollout_percentage":42,"active":true},
		{"key":"server-side","is_simple_flag":false,"active":true}
	]}`
	server.mu.Unlock()

	client := newClient(t, server, nil)

	enabled, err := client.IsFeatureEnabled(context.Background(), "a", "b", false, nil)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = client.IsFeatureEnabled(context.Background(), "server-side", "user-1", false, nil)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = client.IsFeatureEnabled(context.Background(), "missing", "user-1", true, nil)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestClient_FlagsRequirePersonalAPIKey(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	client := newClient(t, server, func(cfg *lumeno.Config) {
		cfg.PersonalAPIKey = ""
	})

	enabled, err := client.IsFeatureEnabled(context.Background(), "a", "b", true, nil)
	assert.ErrorIs(t, err, lumeno.ErrFeatureFlagsNotConfigured)
	assert.True(t, enabled, "the fallback still comes back usable")

	assert.ErrorIs(t, client.ReloadFeatureFlags(context.Background()),
		lumeno.ErrFeatureFlagsNotConfigured)
}

func TestClient_ReloadFeatureFlags_BadCredential(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	client := newClient(t, server, func(cfg *lumeno.Config) {
		cfg.PersonalAPIKey = "wrong-key"
	})

	err := client.ReloadFeatureFlags(context.Background())
	assert.ErrorIs(t, err, flags.ErrInvalidAPIKey)
}

func TestClient_Disabled(t *testing.T) {
	t.Parallel()

	server := newSDKServer(t)
	client := newClient(t, server, func(cfg *lumeno.Config) {
		cfg.Disabled = true
	})

	done := make(chan error, 1)
	require.NoError(t, client.Capture(lumeno.Capture{
		DistinctID: "u",
		Event:      "ignored",
		Callback:   func(_ lumeno.Message, err error) { done <- err },
	}))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("disabled client must still settle callbacks")
	}

	require.NoError(t, client.Flush(context.Background()))
	assert.Empty(t, server.captured())
}

func TestConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lumeno.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"host: https://eu.lumeno.dev\napi_key: key-789\nflush_at: 5\n",
	), 0o600))

	cfg, err := lumeno.ConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://eu.lumeno.dev", cfg.Host)
	assert.Equal(t, "key-789", cfg.APIKey)
	assert.Equal(t, 5, cfg.FlushAt)
	assert.Equal(t, 10*time.Second, cfg.Timeout, "unset fields pick up defaults")
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LUMENO_API_KEY", "env-key")
	t.Setenv("LUMENO_FLUSH_AT", "3")

	cfg, err := lumeno.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 3, cfg.FlushAt)
	assert.Equal(t, "https://app.lumeno.dev", cfg.Host)
}
