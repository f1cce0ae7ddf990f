// Package server wires the vault server together: storage, object store,
// HTTP router, and lifecycle management.
package server

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planmint/designvault/internal/logging"
	"github.com/planmint/designvault/internal/server/blob"
	"github.com/planmint/designvault/internal/server/config"
	"github.com/planmint/designvault/internal/server/db"
	vaulthttp "github.com/planmint/designvault/internal/server/http"
	"github.com/planmint/designvault/internal/server/repositories/designs"
)

// App holds the assembled server and its dependencies.
type App struct {
	config *config.Config
	logger logging.Logger
	server *nethttp.Server
	closeF func()
}

// NewApp assembles the server from config: a Postgres repository when a DSN
// is configured (running migrations first), the in-memory repository
// otherwise, and an optional S3 presigner when an endpoint is set.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var repo designs.Repository
	closeF := func() {}

	if cfg.DatabaseDSN != "" {
		conn, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		repo = designs.NewPostgresRepository(conn)
		closeF = func() { conn.Close() }
		logger.Info(ctx, "using postgres storage")
	} else {
		repo = designs.NewInMemoryRepository()
		logger.Warn(ctx, "no database dsn configured, using in-memory storage")
	}

	var blobs *blob.Store
	if cfg.S3BaseEndpoint != "" {
		blobs = blob.NewStore(blob.Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3BaseEndpoint,
		})
	}

	handler := vaulthttp.NewHandler(repo, blobs, logger)
	router := vaulthttp.NewRouter(handler, []byte(cfg.SecretKey))

	return &App{
		config: cfg,
		logger: logger,
		server: &nethttp.Server{Addr: cfg.EndpointAddr, Handler: router},
		closeF: closeF,
	}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully with a 5 second drain window.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting server", "addr", a.config.EndpointAddr)
		if err := a.server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeF()
		return err
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.closeF()
	return err
}
