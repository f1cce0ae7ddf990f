// Package remote talks to the vault server: the durable, shared, per-owner
// store that becomes authoritative once an identity is durable. Every call
// crosses the network and can fail with common.ErrNetwork or
// common.ErrPermission.
package remote

import (
	"context"

	"github.com/planmint/designvault/internal/client/models"
)

// Store is the remote store contract. Records are addressed by
// (ownerID, id); anonymous data is never stored remotely.
type Store interface {
	// Put upserts a design under ownerID. The server stamps its own sync
	// timestamp; the client-visible identity of a record remains its id.
	Put(ctx context.Context, ownerID string, d *models.Design) error

	// GetAllByOwner returns the full current set for ownerID, empty when
	// the owner has no records.
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error)

	// DeleteByID removes a design. Idempotent.
	DeleteByID(ctx context.Context, ownerID, id string) error
}

// TokenSource supplies the bearer token attached to vault requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource is a TokenSource returning a fixed token. Useful in
// tests and for short-lived tools.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}
