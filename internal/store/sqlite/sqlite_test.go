package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclub/bookclub-server/internal/store"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "bookclub.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetSetRemove(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, store.KeyUsers, "[]"))
	require.NoError(t, s.Set(ctx, store.KeyUsers, `[{"email":"a@b.c"}]`))

	v, ok, err := s.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"email":"a@b.c"}]`, v)

	require.NoError(t, s.Remove(ctx, store.KeyUsers))
	require.NoError(t, s.Remove(ctx, store.KeyUsers))

	_, ok, err = s.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_EmptyKey(t *testing.T) {
	s := setupStore(t)
	assert.ErrorIs(t, s.Set(context.Background(), "", "x"), store.ErrEmptyKey)
}

func TestStore_ScanPrefix(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "device:b:"+store.KeyUsers, "[]"))
	require.NoError(t, s.Set(ctx, "device:a:"+store.KeyPurchases, "[]"))
	require.NoError(t, s.Set(ctx, "other", "x"))

	var keys []string
	require.NoError(t, s.Scan(ctx, "device:", func(key, _ string) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"device:a:" + store.KeyPurchases, "device:b:" + store.KeyUsers}, keys)
}

func TestStore_WorksThroughScopedJSON(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	kv := store.Scoped(s, store.DevicePrefix("d1"))

	require.NoError(t, store.SaveJSON(ctx, kv, store.KeyPurchases, []string{"moby-dick"}))
	assert.Equal(t, []string{"moby-dick"}, store.LoadJSON[[]string](ctx, kv, store.KeyPurchases))
}
