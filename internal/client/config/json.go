package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/planmint/designvault/internal/flagx"
	"github.com/planmint/designvault/internal/timex"
)

// JsonConfig is the DTO for JSON unmarshalling. timex.Duration lets the
// timeout be written either as "10s" or as integer nanoseconds.
type JsonConfig struct {
	LocalDSN         string         `json:"local_dsn"`
	RemoteBaseURL    string         `json:"remote_base_url"`
	RemoteTimeout    timex.Duration `json:"remote_timeout"`
	GuestRenderLimit int            `json:"guest_render_limit"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.LocalDSN != "" {
		cfg.LocalDSN = jc.LocalDSN
	}
	if jc.RemoteBaseURL != "" {
		cfg.RemoteBaseURL = jc.RemoteBaseURL
	}
	if jc.RemoteTimeout.Duration != 0 {
		cfg.RemoteTimeout = time.Duration(jc.RemoteTimeout.Duration)
	}
	if jc.GuestRenderLimit != 0 {
		cfg.GuestRenderLimit = jc.GuestRenderLimit
	}
}
