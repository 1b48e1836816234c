// Package draftstore persists the wizard Draft under a fixed key in a storage.Store.
package draftstore

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/model"
	"github.com/and161185/signup-wizard/internal/storage"
)

// Key is the storage key holding the serialized draft.
const Key = "formData"

// DraftStore loads, saves and clears the draft.
type DraftStore struct {
	store storage.Store
	log   *zap.Logger
}

// New constructs a DraftStore. A nil logger is replaced by a no-op one.
func New(store storage.Store, log *zap.Logger) *DraftStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &DraftStore{store: store, log: log}
}

// Load returns the persisted draft, or the empty draft when none is stored.
// A corrupt entry is removed and never reported to the caller.
func (s *DraftStore) Load(ctx context.Context) model.Draft {
	raw, err := s.store.Get(ctx, Key)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Draft{}
	}
	if err != nil && !errors.Is(err, errs.ErrSealed) {
		s.log.Warn("draft load failed", zap.Error(err))
		return model.Draft{}
	}
	if err == nil {
		var d model.Draft
		if err = json.Unmarshal([]byte(raw), &d); err == nil {
			return d
		}
	}
	s.log.Warn("discarding corrupt draft", zap.Error(err))
	if rerr := s.store.Remove(ctx, Key); rerr != nil {
		s.log.Warn("remove corrupt draft", zap.Error(rerr))
	}
	return model.Draft{}
}

// Save serializes the full draft and writes it under Key.
func (s *DraftStore) Save(ctx context.Context, d model.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, Key, string(b))
}

// Clear removes the persisted draft.
func (s *DraftStore) Clear(ctx context.Context) error {
	return s.store.Remove(ctx, Key)
}
