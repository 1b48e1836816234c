// Package storage defines the key-value store used to persist drafts between runs.
package storage

import "context"

// Store is a synchronous, non-transactional string key-value store.
type Store interface {
	// Get returns the value under key or errs.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
