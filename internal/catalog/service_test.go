package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/pkg/cache"
)

type fakeSource struct {
	products []catalog.Product
	faqs     []catalog.FAQ
	calls    int
	err      error
}

func (f *fakeSource) Products(context.Context) ([]catalog.Product, error) {
	f.calls++
	return f.products, f.err
}

func (f *fakeSource) FAQs(context.Context) ([]catalog.FAQ, error) {
	f.calls++
	return f.faqs, f.err
}

type fakeCache struct {
	values map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = []byte(value)
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	return string(f.values[key]), nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = b
	return nil
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) error {
	b, ok := f.values[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(b, out)
}

func (f *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

var sampleProducts = []catalog.Product{
	{Name: "Choco Fudge Box", Slug: "choco-fudge-box", DiscountedPrice: 500},
	{Name: "Almond Brittle", Slug: "almond-brittle", DiscountedPrice: 800},
	{Name: "Caramel Tart", Slug: "caramel-tart", DiscountedPrice: 350},
}

func newService(source *fakeSource) *catalog.Service {
	return catalog.NewService(source, newFakeCache(), time.Minute, nil)
}

func TestProductsServedFromCacheAfterFirstFetch(t *testing.T) {
	source := &fakeSource{products: sampleProducts}
	svc := newService(source)
	ctx := context.Background()

	first, err := svc.Products(ctx)
	require.NoError(t, err)
	second, err := svc.Products(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second read must come from cache")
}

func TestProductByName(t *testing.T) {
	svc := newService(&fakeSource{products: sampleProducts})

	p, err := svc.Product(context.Background(), "Caramel Tart")
	require.NoError(t, err)
	assert.Equal(t, "caramel-tart", p.Slug)

	_, err = svc.Product(context.Background(), "Ghost Product")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductBySlug(t *testing.T) {
	svc := newService(&fakeSource{products: sampleProducts})

	p, err := svc.ProductBySlug(context.Background(), "almond-brittle")
	require.NoError(t, err)
	assert.Equal(t, "Almond Brittle", p.Name)
}

func TestSearchMatchesNameAndSlug(t *testing.T) {
	svc := newService(&fakeSource{products: sampleProducts})
	ctx := context.Background()

	results, err := svc.Search(ctx, "caramel")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Caramel Tart", results[0].Name)

	results, err = svc.Search(ctx, "BOX")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Choco Fudge Box", results[0].Name)

	results, err = svc.Search(ctx, "nothing matches this")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := newService(&fakeSource{products: sampleProducts})

	for _, q := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), q)
		assert.ErrorIs(t, err, catalog.ErrEmptyQuery)
	}
}

func TestSourceErrorSurfaces(t *testing.T) {
	svc := newService(&fakeSource{err: errors.New("upstream down")})

	_, err := svc.Products(context.Background())
	assert.Error(t, err)
}
