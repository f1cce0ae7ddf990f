package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/planmint/designvault/internal/client/identity"
	"github.com/planmint/designvault/internal/client/models"
	designs "github.com/planmint/designvault/internal/client/repositories/designs"
	"github.com/planmint/designvault/internal/client/remote"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/logging"
)

// Confirmer asks the user whether n anonymous designs should be adopted by
// the identity they just signed in with. Migration is never silent.
type Confirmer interface {
	ConfirmMigration(ctx context.Context, n int) (bool, error)
}

// MigrationManager reassigns designs created before sign-in from the
// anonymous sentinel to the new identity. It runs at most once at a time;
// an invocation arriving while another is in flight is dropped.
type MigrationManager struct {
	local     designs.Repository
	remote    remote.Store
	confirmer Confirmer
	logger    logging.Logger
	busy      atomic.Bool
}

func NewMigrationManager(local designs.Repository, rs remote.Store, confirmer Confirmer, logger logging.Logger) *MigrationManager {
	return &MigrationManager{local: local, remote: rs, confirmer: confirmer, logger: logger}
}

// Busy reports whether a migration (including its confirmation dialog) is
// currently in flight.
func (m *MigrationManager) Busy() bool {
	return m.busy.Load()
}

// Migrate adopts anonymous designs into newID. It returns the number of
// designs reassigned. Outcomes:
//
//   - no anonymous designs: (0, nil) without prompting.
//   - user declines the prompt: (0, common.ErrConfirmationDeclined); the
//     designs stay under the anonymous sentinel and the user is asked again
//     on a later sign-in.
//   - another migration in flight: (0, nil), this invocation is dropped.
//
// After a confirmed local reassignment, migrated designs are pushed to the
// remote store when newID is durable. Push failures are logged, not
// retried, and never fail the migration.
func (m *MigrationManager) Migrate(ctx context.Context, newID *identity.Identity) (int, error) {
	if newID == nil {
		return 0, nil
	}

	if !m.busy.CompareAndSwap(false, true) {
		m.logger.Warn(ctx, "migration already in flight, dropping", "owner", newID.ID)
		return 0, nil
	}
	defer m.busy.Store(false)

	orphans, err := m.local.GetAllByOwner(ctx, common.OwnerAnonymous)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	ok, err := m.confirmer.ConfirmMigration(ctx, len(orphans))
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	if !ok {
		m.logger.Info(ctx, "migration declined", "count", len(orphans))
		return 0, common.ErrConfirmationDeclined
	}

	n, err := m.local.ReassignOwner(ctx, common.OwnerAnonymous, newID.ID)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}

	m.logger.Info(ctx, "migrated designs", "count", n, "owner", newID.ID)

	if newID.Durable() && m.remote != nil {
		m.pushMigrated(ctx, newID.ID, orphans)
	}

	return n, nil
}

// pushMigrated uploads freshly reassigned designs. Best-effort: each
// failure is logged and the rest continue.
func (m *MigrationManager) pushMigrated(ctx context.Context, ownerID string, migrated []models.Design) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range migrated {
		d := migrated[i].Clone()
		d.OwnerID = ownerID
		g.Go(func() error {
			if err := m.remote.Put(ctx, ownerID, d); err != nil {
				m.logger.Warn(ctx, "migration remote push failed", "id", d.ID, "err", err)
			}
			return nil
		})
	}

	_ = g.Wait()
}
