package config

import (
	"errors"
	"fmt"
)

// Validate checks that all fields the recorder needs are set and valid.
func (c *Config) Validate() error {
	if err := c.ValidateClient(); err != nil {
		return err
	}

	if len(c.Assets) == 0 && !c.Discovery.Enabled {
		return errors.New("assets must list at least one token id unless discovery.enabled is set")
	}
	for i, id := range c.Assets {
		if id == "" {
			return fmt.Errorf("assets[%d] is empty", i)
		}
	}
	if !c.Stream.Enabled && !c.Poller.Enabled {
		return errors.New("at least one of stream.enabled or poller.enabled must be set")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Discovery.MaxAssets < 0 {
		return errors.New("discovery.max_assets must be >= 0")
	}

	if c.Writer.BatchSize < 1 {
		return errors.New("writer.batch_size must be >= 1")
	}
	if c.Writer.BufferSize < 1 {
		return errors.New("writer.buffer_size must be >= 1")
	}

	if c.Stream.Enabled {
		if c.Stream.PingInterval <= 0 || c.Stream.PingTimeout <= 0 {
			return errors.New("stream.ping_interval and stream.ping_timeout must be > 0")
		}
		if c.Stream.PingTimeout <= c.Stream.PingInterval {
			return fmt.Errorf("stream.ping_timeout (%v) must exceed ping_interval (%v)", c.Stream.PingTimeout, c.Stream.PingInterval)
		}
	}

	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

// ValidateClient checks only the settings a one-shot API client needs.
func (c *Config) ValidateClient() error {
	if c.API.RestURL == "" {
		return errors.New("api.rest_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0, got %v", c.API.Timeout)
	}
	if c.API.Retries() < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if c.API.RetryBackoff <= 0 {
		return fmt.Errorf("api.retry_backoff must be > 0, got %v", c.API.RetryBackoff)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
