// Package pricing derives the money figures shown in the cart summary and
// frozen into order lines: per-unit price with flavour add-ons, line
// subtotals, the flat discount, GST, and the grand total.
//
// Everything here is a pure function over a cart snapshot and the catalog;
// nothing is persisted.
package pricing

import (
	"context"
	"fmt"

	"github.com/crumbsugar/storefront/internal/cart"
	"github.com/crumbsugar/storefront/internal/catalog"
)

const (
	// FlatDiscount is deducted from the subtotal before tax. It is capped
	// at the subtotal: small carts floor at zero rather than going negative.
	FlatDiscount = 500.0

	// GSTRate applies to the post-discount subtotal.
	GSTRate = 0.18
)

// Summary is the derived money breakdown for a cart or order.
type Summary struct {
	Subtotal float64
	Discount float64
	GST      float64
	Total    float64
}

// UnitPrice is the per-unit price of a product with the given flavours:
// the discounted price plus each flavour's add-on.
func UnitPrice(p catalog.Product, flavours []string) float64 {
	price := p.DiscountedPrice
	for _, name := range flavours {
		if add, ok := p.FlavourPrice(name); ok {
			price += add
		}
	}
	return price
}

// LineSubtotal is the unit price (flavour add-ons included) times quantity.
func LineSubtotal(p catalog.Product, flavours []string, quantity int) float64 {
	return UnitPrice(p, flavours) * float64(quantity)
}

// Derive computes the summary from a subtotal. The flat discount is capped
// at the subtotal, GST applies to the discounted amount, and the total never
// goes negative.
func Derive(subtotal float64) Summary {
	afterDiscount := subtotal - FlatDiscount
	if afterDiscount < 0 {
		afterDiscount = 0
	}
	gst := afterDiscount * GSTRate
	return Summary{
		Subtotal: subtotal,
		Discount: subtotal - afterDiscount,
		GST:      gst,
		Total:    afterDiscount + gst,
	}
}

// Catalog is the product lookup the summariser prices lines against.
type Catalog interface {
	Product(ctx context.Context, name string) (catalog.Product, error)
}

// Summarize prices every cart line against the catalog and derives the
// summary. An unresolvable product name is an error, not a zero-price line.
func Summarize(ctx context.Context, c cart.Cart, cat Catalog) (Summary, error) {
	subtotal := 0.0
	for name, line := range c {
		product, err := cat.Product(ctx, name)
		if err != nil {
			return Summary{}, fmt.Errorf("pricing: line %q: %w", name, err)
		}
		subtotal += LineSubtotal(product, line.Flavours, line.Quantity)
	}
	return Derive(subtotal), nil
}
