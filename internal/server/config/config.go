// Package config handles configuration for the vault server, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the vault server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - DatabaseDSN: Postgres DSN (pgx). Empty means in-memory storage
//     (development and tests only; nothing survives a restart).
//   - SecretKey: HMAC secret for verifying bearer tokens (HS256).
//   - TokenTTL: validity of tokens minted by the dev token helper.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage for rendering uploads; presigned URLs are disabled
//     when S3BaseEndpoint is empty.
type Config struct {
	EndpointAddr   string
	DatabaseDSN    string
	SecretKey      string
	TokenTTL       time.Duration
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenTTL = 15 * time.Minute
	c.S3Bucket = "designvault"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
