// Package designs provides server-side design persistence: a Postgres
// implementation for deployments and an in-memory implementation for tests
// and development.
package designs

import (
	"context"

	"github.com/planmint/designvault/internal/server/models"
)

// Repository stores design documents addressed by (owner, id).
type Repository interface {
	// Upsert inserts or updates a design and stamps SyncedAt. If the id
	// already exists under a different owner, nothing is written and
	// common.ErrPermission is returned.
	Upsert(ctx context.Context, d *models.Design) error

	// GetAllByOwner returns every design owned by ownerID, unordered.
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error)

	// DeleteByID removes the design addressed by (ownerID, id).
	// Deleting an absent pair is a no-op.
	DeleteByID(ctx context.Context, ownerID, id string) error
}
