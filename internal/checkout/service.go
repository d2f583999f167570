package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/crumbsugar/storefront/internal/cart"
	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/order"
	"github.com/crumbsugar/storefront/internal/pricing"
	"github.com/crumbsugar/storefront/internal/profile"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the
// cart.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Catalog is the product lookup used to freeze line prices into the order.
type Catalog interface {
	Product(ctx context.Context, name string) (catalog.Product, error)
}

// Service drives the checkout flow.
type Service struct {
	carts    *cart.Service
	catalog  Catalog
	orders   *order.Service
	profiles *profile.Service
	log      *slog.Logger

	// confirmationDelay reproduces the storefront's short "processing"
	// pause before the confirmation is shown. Zero in tests.
	confirmationDelay time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithConfirmationDelay sets the artificial pause before Checkout returns.
func WithConfirmationDelay(d time.Duration) Option {
	return func(s *Service) { s.confirmationDelay = d }
}

func NewService(carts *cart.Service, cat Catalog, orders *order.Service, profiles *profile.Service, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		carts:    carts,
		catalog:  cat,
		orders:   orders,
		profiles: profiles,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout snapshots the cart into a new order request, persists it, mirrors
// the contact details, and clears the cart. A failure at any point rolls the
// earlier steps back and returns the error; the cart survives.
func (s *Service) Checkout(ctx context.Context, userID string, contact order.Contact) (order.Order, error) {
	c := s.carts.Cart(ctx)
	if len(c) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	o, err := s.buildOrder(ctx, c, contact)
	if err != nil {
		return order.Order{}, err
	}

	info := s.profiles.Get(ctx, userID)
	info.Name = contact.Name
	info.Email = contact.Email
	info.Phone = contact.Phone
	info.Address = contact.Address

	steps := []Step{
		&createOrderStep{orders: s.orders, order: o},
		&mirrorProfileStep{profiles: s.profiles, userID: userID, info: info},
		&clearCartStep{carts: s.carts, snapshot: c.Clone()},
	}

	if err := NewOrchestrator(steps, s.log).Run(ctx); err != nil {
		return order.Order{}, err
	}

	s.log.InfoContext(ctx, "order requested", "order_id", o.ID, "total", o.Total, "items", len(o.Items))

	if s.confirmationDelay > 0 {
		select {
		case <-time.After(s.confirmationDelay):
		case <-ctx.Done():
			// The order is already placed; an impatient client still gets it.
		}
	}
	return o, nil
}

// buildOrder freezes the cart into immutable order lines priced against the
// current catalog.
func (s *Service) buildOrder(ctx context.Context, c cart.Cart, contact order.Contact) (order.Order, error) {
	items := make([]order.Item, 0, len(c))
	subtotal := 0.0
	for name, line := range c {
		product, err := s.catalog.Product(ctx, name)
		if err != nil {
			return order.Order{}, err
		}

		unit := pricing.UnitPrice(product, line.Flavours)
		lineSubtotal := unit * float64(line.Quantity)
		subtotal += lineSubtotal

		items = append(items, order.Item{
			Name:       product.Name,
			Quantity:   line.Quantity,
			Flavours:   line.Flavours,
			MRP:        product.MRP,
			UnitPrice:  unit,
			Subtotal:   lineSubtotal,
			CoverImage: product.CoverImage,
		})
	}

	summary := pricing.Derive(subtotal)
	return order.Order{
		ID:       order.NewID(),
		Date:     time.Now().UTC(),
		Items:    items,
		Status:   order.StatusRequested,
		Subtotal: summary.Subtotal,
		Discount: summary.Discount,
		GST:      summary.GST,
		Total:    summary.Total,
		Contact:  contact,
	}, nil
}
