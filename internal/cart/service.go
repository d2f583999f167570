package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/localstore"
)

var (
	// ErrUnknownProduct is returned when the product name does not exist in
	// the catalog. Unknown names are rejected at insertion instead of
	// producing silent zero-price lines downstream.
	ErrUnknownProduct = errors.New("cart: unknown product")

	// ErrUnknownFlavour is returned when a selected flavour is not offered
	// by the product.
	ErrUnknownFlavour = errors.New("cart: unknown flavour")
)

// Catalog is the slice of the catalog service the cart needs.
type Catalog interface {
	Product(ctx context.Context, name string) (catalog.Product, error)
}

// Service owns the active cart. Every mutation validates against the catalog
// and writes through to the localstore under localstore.KeyCart.
type Service struct {
	store   *localstore.Adapter
	catalog Catalog
	log     *slog.Logger
}

func NewService(store *localstore.Adapter, cat Catalog, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, catalog: cat, log: log}
}

// Cart returns the current cart, falling back to an empty one when nothing
// is stored or the stored payload is unusable.
func (s *Service) Cart(ctx context.Context) Cart {
	c := Cart{}
	s.store.Read(ctx, localstore.KeyCart, &c)
	return c
}

// Update sets the line for the named product. A quantity <= 0 removes the
// line entirely; a positive quantity creates or replaces it. The flavour
// list, when given, must be a subset of the product's offered flavours.
func (s *Service) Update(ctx context.Context, name string, quantity int, flavours []string) (Cart, error) {
	c := s.Cart(ctx)

	if quantity <= 0 {
		delete(c, name)
		if err := s.persist(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}

	product, err := s.catalog.Product(ctx, name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
		}
		return nil, err
	}
	for _, f := range flavours {
		if _, ok := product.FlavourPrice(f); !ok {
			return nil, fmt.Errorf("%w: %q on %q", ErrUnknownFlavour, f, name)
		}
	}

	// Keep the previously chosen flavours when the caller only changes the
	// quantity (plus/minus steppers do not resend the selection).
	if flavours == nil {
		flavours = c[name].Flavours
	}

	c[name] = Line{Quantity: quantity, Flavours: flavours}
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace swaps the whole cart in one write. Used by checkout compensation
// to restore the snapshot taken before the cart was cleared.
func (s *Service) Replace(ctx context.Context, c Cart) error {
	return s.persist(ctx, c)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	return s.persist(ctx, Cart{})
}

func (s *Service) persist(ctx context.Context, c Cart) error {
	if err := s.store.Write(ctx, localstore.KeyCart, c); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}
