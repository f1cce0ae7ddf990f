// Package config handles configuration for the vault client: defaults, an
// optional JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the vault client.
type Config struct {
	// LocalDSN is the SQLite file backing the local store.
	LocalDSN string
	// RemoteBaseURL is the vault server address.
	RemoteBaseURL string
	// RemoteTimeout bounds one vault server request.
	RemoteTimeout time.Duration
	// GuestRenderLimit caps total renderings for a guest identity.
	GuestRenderLimit int
}

// LoadDefaults populates Config with sensible local-development defaults.
func (c *Config) LoadDefaults() {
	c.LocalDSN = "designs.db"
	c.RemoteBaseURL = "http://127.0.0.1:8080"
	c.RemoteTimeout = 10 * time.Second
	c.GuestRenderLimit = 2
}

// LoadConfig builds a Config from defaults, an optional JSON file, and
// command-line flags, in that order of precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
