// Package memory is an in-process Store backed by go-cache. Values do not survive a restart.
package memory

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/and161185/signup-wizard/internal/errs"
)

// Store keeps values in a go-cache instance without expiry.
type Store struct {
	cache *gocache.Cache
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the value under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return "", errs.ErrNotFound
	}
	str, ok := v.(string)
	if !ok {
		return "", errs.ErrNotFound
	}
	return str, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}
