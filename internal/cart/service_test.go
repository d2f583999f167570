package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbsugar/storefront/internal/cart"
	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/localstore"
)

type stubCatalog map[string]catalog.Product

func (s stubCatalog) Product(_ context.Context, name string) (catalog.Product, error) {
	p, ok := s[name]
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: %q", catalog.ErrNotFound, name)
	}
	return p, nil
}

func newService(t *testing.T) (*cart.Service, *localstore.Adapter) {
	t.Helper()

	store := localstore.NewAdapter(localstore.NewMemoryBackend(), nil)
	cat := stubCatalog{
		"Choco Fudge Box": {
			Name:            "Choco Fudge Box",
			DiscountedPrice: 500,
			Flavours:        []catalog.Flavour{{Name: "Hazelnut", Price: 100}},
		},
		"Almond Brittle": {Name: "Almond Brittle", DiscountedPrice: 800},
	}
	return cart.NewService(store, cat, nil), store
}

func TestUpdateCreatesLine(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.Update(ctx, "Almond Brittle", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity("Almond Brittle"))
}

func TestUpdateRemovalInvariant(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// Whatever sequence of updates runs, a quantity <= 0 removes the key.
	_, err := svc.Update(ctx, "Almond Brittle", 3, nil)
	require.NoError(t, err)

	for _, qty := range []int{0, -1, -100} {
		_, err = svc.Update(ctx, "Almond Brittle", 2, nil)
		require.NoError(t, err)

		c, err := svc.Update(ctx, "Almond Brittle", qty, nil)
		require.NoError(t, err)
		_, exists := c["Almond Brittle"]
		assert.False(t, exists, "qty %d must delete the line", qty)
	}
}

func TestUpdateRejectsUnknownProduct(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Update(context.Background(), "Ghost Product", 1, nil)
	assert.ErrorIs(t, err, cart.ErrUnknownProduct)
}

func TestUpdateRejectsUnknownFlavour(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Update(context.Background(), "Choco Fudge Box", 1, []string{"Pistachio"})
	assert.ErrorIs(t, err, cart.ErrUnknownFlavour)
}

func TestUpdateKeepsFlavoursOnQuantityChange(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "Choco Fudge Box", 1, []string{"Hazelnut"})
	require.NoError(t, err)

	// Steppers resend only the quantity.
	c, err := svc.Update(ctx, "Choco Fudge Box", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hazelnut"}, c["Choco Fudge Box"].Flavours)
	assert.Equal(t, 3, c["Choco Fudge Box"].Quantity)
}

func TestMutationsWriteThrough(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "Almond Brittle", 2, nil)
	require.NoError(t, err)

	var persisted cart.Cart
	require.True(t, store.Read(ctx, localstore.KeyCart, &persisted))
	assert.Equal(t, 2, persisted.Quantity("Almond Brittle"))
}

func TestClearEmptiesCart(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "Almond Brittle", 2, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx))

	assert.Empty(t, svc.Cart(ctx))
}

func TestCloneIsDeep(t *testing.T) {
	original := cart.Cart{"Choco Fudge Box": {Quantity: 1, Flavours: []string{"Hazelnut"}}}
	clone := original.Clone()

	clone["Choco Fudge Box"].Flavours[0] = "changed"
	assert.Equal(t, "Hazelnut", original["Choco Fudge Box"].Flavours[0])
}
