// Package storagetest holds the behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/storage"
)

// Run exercises Get/Set/Remove on an empty store.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "formData")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, s.Set(ctx, "formData", `{"firstName":"A"}`))
	v, err := s.Get(ctx, "formData")
	require.NoError(t, err)
	require.Equal(t, `{"firstName":"A"}`, v)

	require.NoError(t, s.Set(ctx, "formData", `{"firstName":"B"}`))
	v, err = s.Get(ctx, "formData")
	require.NoError(t, err)
	require.Equal(t, `{"firstName":"B"}`, v)

	require.NoError(t, s.Set(ctx, "other", "x"))
	require.NoError(t, s.Remove(ctx, "formData"))
	_, err = s.Get(ctx, "formData")
	require.ErrorIs(t, err, errs.ErrNotFound)

	v, err = s.Get(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, "x", v)

	// removing twice is fine
	require.NoError(t, s.Remove(ctx, "formData"))

	require.NoError(t, s.Set(ctx, "empty", ""))
	v, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	require.Equal(t, "", v)
}
