package lumeno

import (
	"time"

	"github.com/lumeno/lumeno-go/pkg/config"
	"github.com/lumeno/lumeno-go/pkg/dispatch"
	"github.com/lumeno/lumeno-go/pkg/flags"
)

// Config is the client configuration surface. Zero values fall back to the
// documented defaults; only APIKey is required, and PersonalAPIKey only when
// feature flags are used.
type Config struct {
	// Host is the Lumeno instance URL, without a trailing slash.
	Host string `env:"LUMENO_HOST" envDefault:"https://app.lumeno.dev" yaml:"host"`

	// APIKey is the project API key sent with every batch.
	APIKey string `env:"LUMENO_API_KEY" yaml:"api_key"`

	// PersonalAPIKey authenticates the feature flag listing endpoint.
	// Leaving it empty disables flag operations on the client.
	PersonalAPIKey string `env:"LUMENO_PERSONAL_API_KEY" yaml:"personal_api_key"`

	// FlushAt is the buffer size that triggers a flush. Floor of 1.
	FlushAt int `env:"LUMENO_FLUSH_AT" envDefault:"20" yaml:"flush_at"`

	// FlushInterval bounds how long a partially filled buffer waits.
	FlushInterval time.Duration `env:"LUMENO_FLUSH_INTERVAL" envDefault:"10s" yaml:"flush_interval"`

	// PollInterval is the feature flag refresh period.
	PollInterval time.Duration `env:"LUMENO_POLL_INTERVAL" envDefault:"5m" yaml:"poll_interval"`

	// Timeout is the per-request timeout for all SDK traffic.
	Timeout time.Duration `env:"LUMENO_TIMEOUT" envDefault:"10s" yaml:"timeout"`

	// Retries is the total attempts per network call, including the first.
	Retries int `env:"LUMENO_RETRIES" envDefault:"5" yaml:"retries"`

	// Disabled turns the client into a no-op; callbacks still fire with
	// success. Used for test environments.
	Disabled bool `env:"LUMENO_DISABLED" yaml:"disabled"`
}

// ConfigFromEnv loads the configuration from environment variables,
// reading a .env file first when one exists.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// ConfigFromFile loads the configuration from a YAML file.
func ConfigFromFile(path string) (Config, error) {
	var cfg Config
	if err := config.LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// withDefaults fills zero values so Config literals behave the same as
// env-loaded configs.
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = dispatch.DefaultHost
	}
	if c.FlushAt == 0 {
		c.FlushAt = dispatch.DefaultFlushAt
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = dispatch.DefaultFlushInterval
	}
	if c.PollInterval == 0 {
		c.PollInterval = flags.DefaultPollInterval
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Retries == 0 {
		c.Retries = 5
	}
	return c
}
