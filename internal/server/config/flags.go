package config

import (
	"flag"
	"os"
	"time"

	"github.com/planmint/designvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address of the HTTP API
//	-d string   Postgres DSN (empty for in-memory storage)
//	-k string   token signing secret
//	-t int      token TTL in minutes
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-t"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to bind")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "postgres dsn (empty = in-memory)")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing secret")
	tokenTTL := fs.Int("t", int(cfg.TokenTTL.Minutes()), "token ttl (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
