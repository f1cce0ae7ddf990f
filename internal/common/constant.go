package common

const (
	// OwnerAnonymous is the reserved owner sentinel for designs created
	// before any sign-in. Anonymous designs live only in the local store.
	OwnerAnonymous = "anonymous"

	// OwnerHeaderName carries the expected owner id on vault API requests.
	// The server rejects requests whose bearer token resolves to a
	// different owner.
	OwnerHeaderName = "X-Owner-Id"
)
