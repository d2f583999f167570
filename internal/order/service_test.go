package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbsugar/storefront/internal/localstore"
	"github.com/crumbsugar/storefront/internal/order"
	"github.com/crumbsugar/storefront/internal/order/statuslog"
)

func newOrderService(t *testing.T) (*order.Service, *statuslog.MemoryRepository) {
	t.Helper()

	store := localstore.NewAdapter(localstore.NewMemoryBackend(), nil)
	log := statuslog.NewMemoryRepository()
	return order.NewService(order.NewStoreRepository(store), nil, log), log
}

func requested(id string) order.Order {
	return order.Order{
		ID:     id,
		Status: order.StatusRequested,
		Items:  []order.Item{{Name: "Almond Brittle", Quantity: 1, UnitPrice: 800, Subtotal: 800}},
		Total:  354,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))

	o, err := svc.Get(ctx, "CSAAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, order.StatusRequested, o.Status)
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))
	require.NoError(t, svc.Create(ctx, requested("CSBBBBBBBBBB")))

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "CSBBBBBBBBBB", orders[0].ID)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))

	o, err := svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, order.StatusInProgress, o.Status)

	o, err = svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status)
}

func TestCancelThenFurtherTransitionRejected(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))

	o, err := svc.Cancel(ctx, "CSAAAAAAAAAA", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Equal(t, "changed my mind", o.CancellationReason)

	// Cancelled is terminal: no way back into the lifecycle.
	_, err = svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusInProgress)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestCompletedIsTerminal(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))
	_, err := svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusCompleted)
	require.NoError(t, err)

	for _, next := range []order.Status{order.StatusRequested, order.StatusInProgress, order.StatusCancelled} {
		_, err = svc.UpdateStatus(ctx, "CSAAAAAAAAAA", next)
		assert.ErrorIs(t, err, order.ErrInvalidTransition, "Completed -> %s", next)
	}

	_, err = svc.Cancel(ctx, "CSAAAAAAAAAA", "too late")
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestAttachReasonToCancelledOrder(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))

	// An admin-side cancellation records no reason.
	o, err := svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusCancelled)
	require.NoError(t, err)
	require.Empty(t, o.CancellationReason)

	// The reason can still be attached afterwards; the status stays put.
	o, err = svc.Cancel(ctx, "CSAAAAAAAAAA", "out of stock")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Equal(t, "out of stock", o.CancellationReason)
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))

	_, err := svc.Cancel(ctx, "CSAAAAAAAAAA", "   ")
	assert.ErrorIs(t, err, order.ErrReasonRequired)
}

func TestRateOnlyCompletedOrders(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))

	_, err := svc.Rate(ctx, "CSAAAAAAAAAA", 5)
	assert.ErrorIs(t, err, order.ErrNotCompleted)

	_, err = svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, "CSAAAAAAAAAA", order.StatusCompleted)
	require.NoError(t, err)

	_, err = svc.Rate(ctx, "CSAAAAAAAAAA", 0)
	assert.ErrorIs(t, err, order.ErrInvalidRating)

	o, err := svc.Rate(ctx, "CSAAAAAAAAAA", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, o.Rating)
	assert.Equal(t, order.StatusCompleted, o.Status)
}

func TestTransitionsAreAudited(t *testing.T) {
	svc, log := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, requested("CSAAAAAAAAAA")))
	_, err := svc.Cancel(ctx, "CSAAAAAAAAAA", "changed my mind")
	require.NoError(t, err)

	entries, err := log.Timeline(ctx, "CSAAAAAAAAAA")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, string(order.StatusRequested), entries[0].Status)
	assert.Equal(t, string(order.StatusCancelled), entries[1].Status)
	assert.Equal(t, "changed my mind", entries[1].Note)
}
