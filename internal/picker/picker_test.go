package picker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/picker"
)

var multiFlavour = catalog.Product{
	Name:            "Choco Fudge Box",
	DiscountedPrice: 500,
	Flavours: []catalog.Flavour{
		{Name: "Hazelnut", Price: 100},
		{Name: "Sea Salt", Price: 50},
	},
}

var singleFlavour = catalog.Product{
	Name:            "Caramel Tart",
	DiscountedPrice: 350,
	Flavours:        []catalog.Flavour{{Name: "Salted Caramel", Price: 75}},
}

var plain = catalog.Product{Name: "Almond Brittle", DiscountedPrice: 800}

func TestShouldOpen(t *testing.T) {
	// First add of a flavour-bearing product goes through the picker.
	assert.True(t, picker.ShouldOpen(multiFlavour, 0))

	// Quantity changes on an existing line bypass it.
	assert.False(t, picker.ShouldOpen(multiFlavour, 2))

	// Flavourless products bypass it entirely.
	assert.False(t, picker.ShouldOpen(plain, 0))
}

func TestOpenRejectsFlavourlessProduct(t *testing.T) {
	pk := picker.New()
	assert.ErrorIs(t, pk.Open(plain), picker.ErrNoFlavours)
}

func TestSingleFlavourPreSelected(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(singleFlavour))

	// Pre-selected, but confirming stays explicit.
	assert.True(t, pk.CanConfirm())

	chosen, err := pk.Confirm()
	require.NoError(t, err)
	assert.Equal(t, []string{"Salted Caramel"}, chosen)
	assert.False(t, pk.IsOpen())
}

func TestConfirmDisabledWithoutSelection(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(multiFlavour))

	assert.False(t, pk.CanConfirm())
	_, err := pk.Confirm()
	assert.ErrorIs(t, err, picker.ErrNoneSelected)
	// A rejected confirm keeps the picker open.
	assert.True(t, pk.IsOpen())
}

func TestToggleAndConfirm(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(multiFlavour))

	require.NoError(t, pk.Toggle("Sea Salt"))
	require.NoError(t, pk.Toggle("Hazelnut"))
	require.True(t, pk.CanConfirm())

	chosen, err := pk.Confirm()
	require.NoError(t, err)
	// Catalog order, not toggle order.
	assert.Equal(t, []string{"Hazelnut", "Sea Salt"}, chosen)
}

func TestToggleOffDeselects(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(multiFlavour))

	require.NoError(t, pk.Toggle("Hazelnut"))
	require.NoError(t, pk.Toggle("Hazelnut"))
	assert.False(t, pk.CanConfirm())
}

func TestToggleRejectsUnknownFlavour(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(multiFlavour))

	assert.ErrorIs(t, pk.Toggle("Pistachio"), picker.ErrUnknownFlavour)
}

func TestCancelClosesWithoutSelection(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(multiFlavour))
	require.NoError(t, pk.Toggle("Hazelnut"))

	pk.Cancel()
	assert.False(t, pk.IsOpen())

	_, err := pk.Confirm()
	assert.ErrorIs(t, err, picker.ErrClosed)
}

func TestOpenWhileOpenRejected(t *testing.T) {
	pk := picker.New()
	require.NoError(t, pk.Open(multiFlavour))
	assert.ErrorIs(t, pk.Open(singleFlavour), picker.ErrAlreadyOpen)
}
