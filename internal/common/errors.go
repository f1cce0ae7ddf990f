// Package common defines shared constants and sentinel errors used across
// the client and server halves of designvault. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable means local persistence is inaccessible (for
	// example the backing database cannot be opened or written). Callers
	// treat it as non-fatal: optimistic state is kept and the failure is
	// surfaced as a warning.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// Remote vault errors.
	ErrNetwork    = errors.New("remote vault unreachable")
	ErrPermission = errors.New("owner not permitted")

	// ErrQuotaExceeded is a policy outcome, not a store failure: the guest
	// rendering ceiling was reached and no upgrade prompt was available.
	ErrQuotaExceeded = errors.New("rendering quota exceeded")

	// ErrConfirmationDeclined means the user declined the ownership
	// migration prompt. It is a normal terminal outcome, not a failure.
	ErrConfirmationDeclined = errors.New("migration declined")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
