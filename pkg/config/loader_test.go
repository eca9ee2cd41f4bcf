package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeno/lumeno-go/pkg/config"
)

type testSettings struct {
	Host    string        `env:"TEST_LUMENO_HOST" envDefault:"https://app.lumeno.dev" yaml:"host"`
	APIKey  string        `env:"TEST_LUMENO_API_KEY" yaml:"api_key"`
	FlushAt int           `env:"TEST_LUMENO_FLUSH_AT" envDefault:"20" yaml:"flush_at"`
	Timeout time.Duration `env:"TEST_LUMENO_TIMEOUT" envDefault:"10s" yaml:"timeout"`
}

func TestLoad_Defaults(t *testing.T) {
	var s testSettings
	require.NoError(t, config.Load(&s))

	assert.Equal(t, "https://app.lumeno.dev", s.Host)
	assert.Equal(t, 20, s.FlushAt)
	assert.Equal(t, 10*time.Second, s.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_LUMENO_HOST", "https://eu.lumeno.dev")
	t.Setenv("TEST_LUMENO_API_KEY", "key-123")
	t.Setenv("TEST_LUMENO_FLUSH_AT", "50")

	var s testSettings
	require.NoError(t, config.Load(&s))

	assert.Equal(t, "https://eu.lumeno.dev", s.Host)
	assert.Equal(t, "key-123", s.APIKey)
	assert.Equal(t, 50, s.FlushAt)
}

func TestLoad_NilPointer(t *testing.T) {
	t.Parallel()

	var s *testSettings
	assert.ErrorIs(t, config.Load(s), config.ErrNilPointer)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lumeno.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"host: https://eu.lumeno.dev\napi_key: key-456\nflush_at: 5\ntimeout: 3s\n",
	), 0o600))

	var s testSettings
	require.NoError(t, config.LoadFile(path, &s))

	assert.Equal(t, "https://eu.lumeno.dev", s.Host)
	assert.Equal(t, "key-456", s.APIKey)
	assert.Equal(t, 5, s.FlushAt)
	assert.Equal(t, 3*time.Second, s.Timeout)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	var s testSettings
	err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	assert.ErrorIs(t, err, config.ErrReadingFile)
}

func TestParse_UnknownKeysRejected(t *testing.T) {
	t.Parallel()

	var s testSettings
	err := config.Parse([]byte("host: x\nflsh_at: 3\n"), &s)
	assert.ErrorIs(t, err, config.ErrParsingFile, "typos must surface instead of silently defaulting")
}
