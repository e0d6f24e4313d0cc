package config

import "time"

// Config is the root configuration shared by the recorder and clobctl.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Decode    DecodeConfig    `yaml:"decode"`
	Assets    []string        `yaml:"assets"` // Token ids to record
	Discovery DiscoveryConfig `yaml:"discovery"`
	Stream    StreamConfig    `yaml:"stream"`
	Poller    PollerConfig    `yaml:"poller"`
	Writer    WriterConfig    `yaml:"writer"`
	Database  DBConfig        `yaml:"database"`
	Health    HealthConfig    `yaml:"health"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig holds CLOB API settings.
type APIConfig struct {
	RestURL      string        `yaml:"rest_url"`
	WSURL        string        `yaml:"ws_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   *int          `yaml:"max_retries"` // Unset means DefaultMaxRetries; 0 disables retries
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// Retries returns the configured retry count, or the default when unset.
func (a APIConfig) Retries() int {
	if a.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *a.MaxRetries
}

// DecodeConfig selects how response bodies are decoded.
type DecodeConfig struct {
	Strict bool `yaml:"strict"` // Fail on missing required fields
	Trace  bool `yaml:"trace"`  // Log raw bodies at debug level
}

// StreamConfig holds market channel settings.
type StreamConfig struct {
	Enabled            bool          `yaml:"enabled"`
	PingInterval       time.Duration `yaml:"ping_interval"`
	PingTimeout        time.Duration `yaml:"ping_timeout"` // Max wait for a PONG before reconnecting
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
}

// DiscoveryConfig selects markets to record from the sampling (reward
// eligible) market list, in addition to the static assets.
type DiscoveryConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`   // Reconcile interval
	MaxAssets int           `yaml:"max_assets"` // 0 means no limit
}

// PollerConfig holds REST book poller settings.
type PollerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
}

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
