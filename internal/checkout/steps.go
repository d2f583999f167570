package checkout

import (
	"context"

	"github.com/crumbsugar/storefront/internal/cart"
	"github.com/crumbsugar/storefront/internal/order"
	"github.com/crumbsugar/storefront/internal/profile"
)

// rollbackReason is recorded on orders cancelled because a later checkout
// step failed.
const rollbackReason = "checkout could not be completed"

// --- createOrderStep ---

type createOrderStep struct {
	orders *order.Service
	order  order.Order
}

func (s *createOrderStep) Name() string { return "Create_Order_Step" }

func (s *createOrderStep) Execute(ctx context.Context) error {
	return s.orders.Create(ctx, s.order)
}

func (s *createOrderStep) Compensate(ctx context.Context) error {
	// Orders are never deleted; the undo is a cancellation.
	_, err := s.orders.Cancel(ctx, s.order.ID, rollbackReason)
	return err
}

// --- mirrorProfileStep ---

type mirrorProfileStep struct {
	profiles *profile.Service
	userID   string
	info     profile.Info
}

func (s *mirrorProfileStep) Name() string { return "Mirror_Profile_Step" }

func (s *mirrorProfileStep) Execute(ctx context.Context) error {
	return s.profiles.Save(ctx, s.userID, s.info)
}

func (s *mirrorProfileStep) Compensate(ctx context.Context) error {
	// Saving the contact details again on a retry is harmless; nothing to
	// undo.
	return nil
}

// --- clearCartStep ---

type clearCartStep struct {
	carts    *cart.Service
	snapshot cart.Cart
}

func (s *clearCartStep) Name() string { return "Clear_Cart_Step" }

func (s *clearCartStep) Execute(ctx context.Context) error {
	return s.carts.Clear(ctx)
}

func (s *clearCartStep) Compensate(ctx context.Context) error {
	return s.carts.Replace(ctx, s.snapshot)
}
