package localstore_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbsugar/storefront/internal/localstore"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newAdapter() (*localstore.Adapter, *localstore.MemoryBackend) {
	backend := localstore.NewMemoryBackend()
	return localstore.NewAdapter(backend, nil), backend
}

func TestRoundTrip(t *testing.T) {
	adapter, _ := newAdapter()
	ctx := context.Background()

	in := record{Name: "Choco Fudge Box", Count: 3}
	require.NoError(t, adapter.Write(ctx, localstore.KeyCart, in))

	var out record
	require.True(t, adapter.Read(ctx, localstore.KeyCart, &out))
	assert.Equal(t, in, out)
}

func TestReadAbsentKeyLeavesDefault(t *testing.T) {
	adapter, _ := newAdapter()

	out := record{Name: "default"}
	assert.False(t, adapter.Read(context.Background(), "missing", &out))
	assert.Equal(t, "default", out.Name)
}

func TestReadCorruptPayloadLeavesDefault(t *testing.T) {
	adapter, backend := newAdapter()
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, localstore.KeyProfile, []byte("{not json")))

	out := record{Name: "default"}
	assert.False(t, adapter.Read(ctx, localstore.KeyProfile, &out))
	assert.Equal(t, "default", out.Name)
}

func TestReadCorruptInnerValueLeavesDefault(t *testing.T) {
	adapter, backend := newAdapter()
	ctx := context.Background()

	// Valid envelope, but the data does not fit the destination shape.
	raw := []byte(`{"version":1,"data":"a string, not an object"}`)
	require.NoError(t, backend.Put(ctx, localstore.KeyProfile, raw))

	out := record{Name: "default"}
	assert.False(t, adapter.Read(ctx, localstore.KeyProfile, &out))
	assert.Equal(t, "default", out.Name)
}

func TestMigrationLiftsOldVersion(t *testing.T) {
	adapter, backend := newAdapter()
	ctx := context.Background()

	// Version 0 stored the count under "qty".
	adapter.RegisterMigration(localstore.KeyCart, 0, func(data json.RawMessage) (json.RawMessage, error) {
		var old struct {
			Name string `json:"name"`
			Qty  int    `json:"qty"`
		}
		if err := json.Unmarshal(data, &old); err != nil {
			return nil, err
		}
		return json.Marshal(record{Name: old.Name, Count: old.Qty})
	})

	raw := []byte(`{"version":0,"data":{"name":"Almond Brittle","qty":2}}`)
	require.NoError(t, backend.Put(ctx, localstore.KeyCart, raw))

	var out record
	require.True(t, adapter.Read(ctx, localstore.KeyCart, &out))
	assert.Equal(t, record{Name: "Almond Brittle", Count: 2}, out)
}

func TestMissingMigrationFallsBack(t *testing.T) {
	adapter, backend := newAdapter()
	ctx := context.Background()

	raw := []byte(`{"version":0,"data":{}}`)
	require.NoError(t, backend.Put(ctx, localstore.KeyCart, raw))

	var out record
	assert.False(t, adapter.Read(ctx, localstore.KeyCart, &out))
}

func TestLoadedFlagAfterHydrate(t *testing.T) {
	adapter, _ := newAdapter()

	assert.False(t, adapter.Loaded())
	require.NoError(t, adapter.Hydrate(context.Background()))
	assert.True(t, adapter.Loaded())
}
