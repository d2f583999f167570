package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/crumbsugar/storefront/internal/localstore"
)

// ErrNotFound is returned when no order with the given ID exists.
var ErrNotFound = errors.New("order: not found")

// Repository persists the order history list. The history is append-and-
// update only; orders are never removed.
type Repository interface {
	Append(ctx context.Context, o Order) error
	All(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (Order, error)
	Update(ctx context.Context, o Order) error
}

// storeRepository keeps the history as a single JSON list under
// localstore.KeyOrders, mirroring the origin's local-storage layout.
type storeRepository struct {
	store *localstore.Adapter
}

func NewStoreRepository(store *localstore.Adapter) Repository {
	return &storeRepository{store: store}
}

func (r *storeRepository) all(ctx context.Context) []Order {
	var orders []Order
	r.store.Read(ctx, localstore.KeyOrders, &orders)
	return orders
}

func (r *storeRepository) persist(ctx context.Context, orders []Order) error {
	if err := r.store.Write(ctx, localstore.KeyOrders, orders); err != nil {
		return fmt.Errorf("order: persist history: %w", err)
	}
	return nil
}

func (r *storeRepository) Append(ctx context.Context, o Order) error {
	return r.persist(ctx, append(r.all(ctx), o))
}

func (r *storeRepository) All(ctx context.Context) ([]Order, error) {
	return r.all(ctx), nil
}

func (r *storeRepository) Get(ctx context.Context, id string) (Order, error) {
	for _, o := range r.all(ctx) {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

func (r *storeRepository) Update(ctx context.Context, updated Order) error {
	orders := r.all(ctx)
	for i, o := range orders {
		if o.ID == updated.ID {
			orders[i] = updated
			return r.persist(ctx, orders)
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, updated.ID)
}
