package cli

import (
	"context"

	"github.com/planmint/designvault/internal/client/client"
	"github.com/planmint/designvault/internal/client/config"
	"github.com/planmint/designvault/internal/client/identity"
	"github.com/planmint/designvault/internal/client/remote"
	"github.com/planmint/designvault/internal/client/services"
	"github.com/planmint/designvault/internal/logging"
)

// App is the assembled vault client. The embedding application drives it
// through Identities (sign-in/out) and Sync (listing, mutations, deletes);
// everything else runs behind those two.
type App struct {
	Identities *identity.Broker
	Sync       *services.Orchestrator
	Quota      *services.QuotaGuard

	repos  *client.Repositories
	unbind func()
}

// NewApp opens the local database, connects the remote store, and wires the
// sync layer to the identity broker.
func NewApp(ctx context.Context, cfg *config.Config, tokens remote.TokenSource, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	repos, err := client.InitDatabase(ctx, cfg.LocalDSN)
	if err != nil {
		return nil, err
	}

	store := remote.NewHTTPStore(cfg.RemoteBaseURL, tokens, cfg.RemoteTimeout)
	prompt := NewTerminalPrompt()

	migrations := services.NewMigrationManager(repos.Designs, store, prompt, logger)
	orchestrator := services.NewOrchestrator(repos.Designs, store, migrations, logger)
	broker := identity.NewBroker()

	app := &App{
		Identities: broker,
		Sync:       orchestrator,
		Quota:      services.NewQuotaGuard(cfg.GuestRenderLimit, prompt, logger),
		repos:      repos,
	}
	app.unbind = orchestrator.Bind(broker)

	return app, nil
}

// Close detaches from the identity broker, drains in-flight remote writes,
// and closes the local database.
func (a *App) Close() error {
	a.unbind()
	a.Sync.Wait()
	return a.repos.DB.Close()
}
