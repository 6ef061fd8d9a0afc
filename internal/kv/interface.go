package kv

import "context"

// Store is the persistent key-value store the entity store is synchronized to.
// Values are opaque strings; the store never interprets them.
type Store interface {
	// GetString returns the value for key and whether it exists
	GetString(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	// SetMany stores all entries as one atomic unit: either every key is
	// written or none is
	SetMany(ctx context.Context, entries map[string]string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// ClearAll removes every key owned by this store
	ClearAll(ctx context.Context) error
	// Close releases the underlying connection
	Close() error
}
