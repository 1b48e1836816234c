// Package sealed wraps a Store so values are encrypted at rest.
package sealed

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/and161185/signup-wizard/internal/crypto/sealbox"
	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/storage"
)

// Store seals each value with a key derived from the master key and the entry name.
// The entry name is bound as AAD, so a value copied under another key will not open.
type Store struct {
	inner  storage.Store
	master []byte
}

var _ storage.Store = (*Store)(nil)

// New wraps inner with master key.
func New(inner storage.Store, master []byte) *Store {
	return &Store{inner: inner, master: master}
}

// Get opens the value under key. Undecodable values report errs.ErrSealed.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrSealed, err)
	}
	sub, err := sealbox.SubKey(s.master, key)
	if err != nil {
		return "", err
	}
	pt, err := sealbox.Open(sub, []byte(key), blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrSealed, err)
	}
	return string(pt), nil
}

// Set seals value and writes it to the inner store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	sub, err := sealbox.SubKey(s.master, key)
	if err != nil {
		return err
	}
	blob, err := sealbox.Seal(sub, []byte(key), []byte(value))
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(blob))
}

// Remove deletes key from the inner store.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
