// Package catalog holds the product and FAQ data served by the headless
// content platform. The storefront consumes these records read-only; pricing
// and cart validation both key off the product name.
package catalog

// Flavour is a selectable customization on a product. Each flavour carries
// its own price add-on applied per unit.
type Flavour struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Product is one confectionery item as published by the content platform.
type Product struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Category        string   `json:"category"`
	MRP             float64  `json:"mrp"`
	DiscountedPrice float64  `json:"discounted_price"`
	CoverImage      string   `json:"cover_image"`
	Images          []string `json:"images,omitempty"`

	// Flavours is empty for products sold as-is. A non-empty list gates
	// adding to the cart behind the flavour picker.
	Flavours []Flavour `json:"flavours,omitempty"`

	// Composition metadata shown on the product page (ingredients, weight).
	Ingredients []string `json:"ingredients,omitempty"`
	Weight      string   `json:"weight,omitempty"`
}

// HasFlavours reports whether the product requires a flavour selection
// before it can be added to the cart.
func (p Product) HasFlavours() bool {
	return len(p.Flavours) > 0
}

// FlavourPrice returns the add-on price of the named flavour.
func (p Product) FlavourPrice(name string) (float64, bool) {
	for _, f := range p.Flavours {
		if f.Name == name {
			return f.Price, true
		}
	}
	return 0, false
}

// FAQ is a single question/answer entry for the help page.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
