package config

import (
	"flag"
	"os"

	"github.com/planmint/designvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   sqlite file backing the local store
//	-r string   vault server base url
//	-q int      guest rendering limit
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-r", "-q"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDSN, "f", cfg.LocalDSN, "sqlite file backing the local store")
	fs.StringVar(&cfg.RemoteBaseURL, "r", cfg.RemoteBaseURL, "vault server base url")
	fs.IntVar(&cfg.GuestRenderLimit, "q", cfg.GuestRenderLimit, "guest rendering limit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
