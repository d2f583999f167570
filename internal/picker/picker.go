// Package picker implements the flavour selection flow that gates adding a
// customizable product to the cart.
//
// The machine has two states, closed and open(product). It opens when a
// product that offers flavours is added for the first time; a product
// without flavours bypasses it entirely and is added directly.
package picker

import (
	"errors"
	"fmt"

	"github.com/crumbsugar/storefront/internal/catalog"
)

var (
	ErrClosed         = errors.New("picker: not open")
	ErrAlreadyOpen    = errors.New("picker: already open")
	ErrNoFlavours     = errors.New("picker: product has no flavours")
	ErrUnknownFlavour = errors.New("picker: flavour not offered by product")
	ErrNoneSelected   = errors.New("picker: at least one flavour must be selected")
)

// ShouldOpen reports whether adding the product must go through the picker:
// the line does not exist yet and the product offers flavours. Quantity
// changes on an existing line keep the originally chosen flavours.
func ShouldOpen(p catalog.Product, currentQuantity int) bool {
	return currentQuantity == 0 && p.HasFlavours()
}

// Picker is the short-lived selection state. It is not safe for concurrent
// use; each session owns its own instance.
type Picker struct {
	open     bool
	product  catalog.Product
	selected map[string]bool
}

func New() *Picker {
	return &Picker{}
}

// Open starts a selection for the given product. A product with exactly one
// flavour gets it pre-selected, but confirming is still explicit.
func (pk *Picker) Open(p catalog.Product) error {
	if pk.open {
		return ErrAlreadyOpen
	}
	if !p.HasFlavours() {
		return fmt.Errorf("%w: %q", ErrNoFlavours, p.Name)
	}

	pk.open = true
	pk.product = p
	pk.selected = make(map[string]bool)
	if len(p.Flavours) == 1 {
		pk.selected[p.Flavours[0].Name] = true
	}
	return nil
}

// IsOpen reports whether a selection is in progress.
func (pk *Picker) IsOpen() bool {
	return pk.open
}

// Product returns the product being customized, valid only while open.
func (pk *Picker) Product() catalog.Product {
	return pk.product
}

// Toggle flips the selection of one flavour.
func (pk *Picker) Toggle(name string) error {
	if !pk.open {
		return ErrClosed
	}
	if _, ok := pk.product.FlavourPrice(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlavour, name)
	}

	if pk.selected[name] {
		delete(pk.selected, name)
	} else {
		pk.selected[name] = true
	}
	return nil
}

// CanConfirm reports whether the confirm action is enabled: a flavour-
// bearing product must not produce a line with no flavour information.
func (pk *Picker) CanConfirm() bool {
	return pk.open && len(pk.selected) > 0
}

// Confirm closes the picker and returns the chosen flavours in the order
// the product offers them, ready for the cart update.
func (pk *Picker) Confirm() ([]string, error) {
	if !pk.open {
		return nil, ErrClosed
	}
	if len(pk.selected) == 0 {
		return nil, ErrNoneSelected
	}

	var chosen []string
	for _, f := range pk.product.Flavours {
		if pk.selected[f.Name] {
			chosen = append(chosen, f.Name)
		}
	}
	pk.reset()
	return chosen, nil
}

// Cancel closes the picker without touching the cart.
func (pk *Picker) Cancel() {
	pk.reset()
}

func (pk *Picker) reset() {
	pk.open = false
	pk.product = catalog.Product{}
	pk.selected = nil
}
