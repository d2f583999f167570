package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbsugar/storefront/internal/localstore/sqlite"
)

func openBackend(t *testing.T) *sqlite.Backend {
	t.Helper()

	backend, err := sqlite.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestPutGetRoundTrip(t *testing.T) {
	backend := openBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "cart", []byte(`{"version":1,"data":{}}`)))

	value, ok, err := backend.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"version":1,"data":{}}`, string(value))
}

func TestGetAbsentKey(t *testing.T) {
	backend := openBackend(t)

	_, ok, err := backend.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	backend := openBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "cart", []byte(`"first"`)))
	require.NoError(t, backend.Put(ctx, "cart", []byte(`"second"`)))

	value, ok, err := backend.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"second"`, string(value))
}

func TestDelete(t *testing.T) {
	backend := openBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "cart", []byte(`{}`)))
	require.NoError(t, backend.Delete(ctx, "cart"))

	_, ok, err := backend.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)
}
