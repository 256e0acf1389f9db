package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	// overwrite
	require.NoError(t, kv.Set(ctx, "k", "v2"))
	got, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", "v"))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
