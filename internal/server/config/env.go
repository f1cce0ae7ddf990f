package config

import (
	"os"
	"time"
)

// parseEnv overlays cfg with DESIGNVAULT_* environment variables. Combined
// with godotenv in cmd/server this covers .env-based deployments.
func parseEnv(cfg *Config) {
	if v := os.Getenv("DESIGNVAULT_ADDR"); v != "" {
		cfg.EndpointAddr = v
	}
	if v := os.Getenv("DESIGNVAULT_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("DESIGNVAULT_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("DESIGNVAULT_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("DESIGNVAULT_S3_ACCESS_KEY"); v != "" {
		cfg.S3AccessKey = v
	}
	if v := os.Getenv("DESIGNVAULT_S3_SECRET_KEY"); v != "" {
		cfg.S3SecretKey = v
	}
	if v := os.Getenv("DESIGNVAULT_S3_BUCKET"); v != "" {
		cfg.S3Bucket = v
	}
	if v := os.Getenv("DESIGNVAULT_S3_REGION"); v != "" {
		cfg.S3Region = v
	}
	if v := os.Getenv("DESIGNVAULT_S3_ENDPOINT"); v != "" {
		cfg.S3BaseEndpoint = v
	}
}
