// Package cart holds the active shopping cart: a mapping from product name
// to the selected quantity and flavours. The cart is session-local state,
// persisted through the localstore on every mutation.
package cart

// Line is one distinct product entry in the cart.
//
// A line with quantity <= 0 never exists in the map; removal deletes the key.
type Line struct {
	Quantity int      `json:"quantity"`
	Flavours []string `json:"flavours,omitempty"`
}

// Cart maps product name to its line.
type Cart map[string]Line

// Quantity returns the quantity for the named product, zero if absent.
func (c Cart) Quantity(name string) int {
	return c[name].Quantity
}

// TotalItems is the sum of all line quantities, shown on the cart badge.
func (c Cart) TotalItems() int {
	total := 0
	for _, line := range c {
		total += line.Quantity
	}
	return total
}

// Clone returns a deep copy, used by checkout to snapshot the cart before
// clearing it so a failed checkout can restore it.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for name, line := range c {
		flavours := make([]string, len(line.Flavours))
		copy(flavours, line.Flavours)
		out[name] = Line{Quantity: line.Quantity, Flavours: flavours}
	}
	return out
}
