// Package models defines server-side rows for the vault. The server treats
// the design document as an opaque JSON payload and only promotes the
// fields it needs for addressing and auditing.
package models

import "time"

// Design is one stored design document.
type Design struct {
	// ID is the client-assigned, globally unique design id.
	ID string

	// OwnerID is the owning account. Records are addressed by
	// (OwnerID, ID); an id can never exist under two owners.
	OwnerID string

	// CreatedAt is the client-side creation time, the listing order key.
	CreatedAt time.Time

	// Doc is the full wire document as received from the client.
	Doc []byte

	// SyncedAt is the server-observed time of the last upsert. Distinct
	// from CreatedAt; used for debugging and ordering, never as identity.
	SyncedAt time.Time
}
