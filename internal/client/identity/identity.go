// Package identity models the owning identity of a design collection and
// the push-based subscription to identity changes delivered by an external
// auth provider.
package identity

import (
	"context"

	"github.com/planmint/designvault/internal/common"
)

// Kind classifies an identity for durability and quota policy.
type Kind string

const (
	// KindAnonymous is the pre-auth session. Unbounded, local-only.
	KindAnonymous Kind = "anonymous"
	// KindGuest is a disposable authenticated-like session with a
	// rendering ceiling. Guest data does not sync remotely.
	KindGuest Kind = "guest"
	// KindAccount is a durable authenticated account, eligible for remote
	// storage.
	KindAccount Kind = "account"
)

// Identity is the session/account a design collection belongs to.
// Equality is by ID, never by reference.
type Identity struct {
	ID   string
	Kind Kind
}

// Anonymous returns the reserved pre-auth identity.
func Anonymous() *Identity {
	return &Identity{ID: common.OwnerAnonymous, Kind: KindAnonymous}
}

// Durable reports whether the identity is expected to persist across
// sessions and is therefore eligible for remote storage.
func (i *Identity) Durable() bool {
	return i != nil && i.Kind == KindAccount
}

// Equal compares identities by their stable id field.
func Equal(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// Handler receives the current identity, or nil when signed out.
type Handler func(id *Identity)

// Provider is the boundary to the external auth collaborator. Subscribe
// must replay the current value to a new subscriber immediately and then
// deliver every subsequent change until the returned unsubscribe func is
// called.
type Provider interface {
	SignIn(ctx context.Context) (*Identity, error)
	SignOut(ctx context.Context) error
	Subscribe(h Handler) (unsubscribe func())
}
