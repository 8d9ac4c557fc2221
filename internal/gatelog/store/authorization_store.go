package store

import "context"

// AuthorizationEntry maps a badge uid to its owner label.  At most one
// entry exists per uid.
type AuthorizationEntry struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// AuthorizationStore is the allow-list.  The ingestion pipeline only ever
// calls Lookup; the mutating methods back the thin management endpoints.
type AuthorizationStore interface {
	// Lookup resolves a uid.  ok=false with a nil error means the uid is
	// simply not on the allow-list; an error means the list was
	// unreachable and the caller must fail closed.
	Lookup(ctx context.Context, uid string) (username string, ok bool, err error)

	// List returns all entries ordered by owner label.
	List(ctx context.Context) ([]AuthorizationEntry, error)

	// Put inserts an entry if the uid is absent; an existing entry is
	// left untouched.
	Put(ctx context.Context, uid, username string) error

	// Rename updates the owner label of an existing entry.
	Rename(ctx context.Context, uid, username string) error

	// Delete removes the entry for uid, if any.
	Delete(ctx context.Context, uid string) error
}
