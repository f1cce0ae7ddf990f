package designs

import (
	"context"

	"github.com/planmint/designvault/internal/client/models"
)

// Repository is the local store contract: durable, per-profile persistence
// keyed by design id with a secondary index by owner. No network dependency.
type Repository interface {
	// CreateOrUpdate upserts a design by id. Idempotent. Failures wrap
	// common.ErrStorageUnavailable and callers treat them as non-fatal.
	CreateOrUpdate(ctx context.Context, d *models.Design) error

	// GetAllByOwner returns every design owned by ownerID, unordered.
	// Callers sort by CreatedAt.
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error)

	// GetByID returns one design, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Design, error)

	// DeleteByID removes a design. Deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id string) error

	// ReassignOwner rewrites ownership of every design under oldOwnerID to
	// newOwnerID and reports how many were moved. Every record is atomically
	// either old-owner or new-owner at any observation point; the SQLite
	// implementation makes the whole rewrite transactional.
	ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int, error)
}
