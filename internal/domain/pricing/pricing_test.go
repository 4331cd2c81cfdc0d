//go:build unit

package pricing_test

import (
	"testing"

	"storefront/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *pricing.Engine {
	return pricing.NewEngine(pricing.DefaultOptions())
}

func TestCompute(t *testing.T) {
	t.Run("standard cart with free shipping", func(t *testing.T) {
		// Two items at 50.00 and one at 25.00: subtotal 125.00 clears
		// the standard free-shipping threshold of 100.
		items := []pricing.LineItem{
			{UnitPrice: 50.00, Quantity: 2},
			{UnitPrice: 25.00, Quantity: 1},
		}

		quote, err := newEngine().Compute(items, 1, 0, true)
		require.NoError(t, err)

		want := pricing.Quote{
			ItemsPrice:        125.00,
			ShippingPrice:     0,
			TaxPrice:          18.75,
			TotalPrice:        143.75,
			DeliveryDateIndex: 1,
			Final:             true,
		}
		if diff := cmp.Diff(want, quote); diff != "" {
			t.Errorf("quote mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("shipping charged below threshold", func(t *testing.T) {
		items := []pricing.LineItem{{UnitPrice: 40.00, Quantity: 1}}

		quote, err := newEngine().Compute(items, 1, 0, true)
		require.NoError(t, err)

		assert.InDelta(t, 40.00, quote.ItemsPrice, 1e-9)
		assert.InDelta(t, 10.00, quote.ShippingPrice, 1e-9)
		assert.InDelta(t, 6.00, quote.TaxPrice, 1e-9)
		assert.InDelta(t, 56.00, quote.TotalPrice, 1e-9)
	})

	t.Run("discount reduces items only", func(t *testing.T) {
		items := []pricing.LineItem{{UnitPrice: 125.00, Quantity: 1}}

		quote, err := newEngine().Compute(items, 1, 12.50, true)
		require.NoError(t, err)

		// Tax is computed on the undiscounted subtotal.
		assert.InDelta(t, 18.75, quote.TaxPrice, 1e-9)
		assert.InDelta(t, 131.25, quote.TotalPrice, 1e-9)
	})

	t.Run("discount larger than subtotal floors at zero", func(t *testing.T) {
		items := []pricing.LineItem{{UnitPrice: 10.00, Quantity: 1}}

		quote, err := newEngine().Compute(items, 2, 50.00, true)
		require.NoError(t, err)

		// 0 items + 5 shipping + 1.50 tax
		assert.InDelta(t, 6.50, quote.TotalPrice, 1e-9)
	})

	t.Run("no address yields non-final quote", func(t *testing.T) {
		items := []pricing.LineItem{{UnitPrice: 10.00, Quantity: 3}}

		quote, err := newEngine().Compute(items, 0, 0, false)
		require.NoError(t, err)

		assert.False(t, quote.Final)
		assert.InDelta(t, 30.00, quote.ItemsPrice, 1e-9)
		assert.Zero(t, quote.ShippingPrice)
		assert.Zero(t, quote.TaxPrice)
		assert.Zero(t, quote.TotalPrice)
	})

	t.Run("sub-amounts round independently", func(t *testing.T) {
		items := []pricing.LineItem{{UnitPrice: 0.10, Quantity: 3}}

		quote, err := newEngine().Compute(items, 2, 0, true)
		require.NoError(t, err)

		assert.InDelta(t, 0.30, quote.ItemsPrice, 1e-9)
		// 0.30 * 0.15 = 0.045 rounds half up to 0.05
		assert.InDelta(t, 0.05, quote.TaxPrice, 1e-9)
		assert.InDelta(t, 5.35, quote.TotalPrice, 1e-9)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name     string
			items    []pricing.LineItem
			index    int
			discount float64
			errIs    error
		}{
			{
				name:  "empty cart",
				items: nil,
				index: 1,
				errIs: pricing.ErrEmptyCart,
			},
			{
				name:     "negative discount",
				items:    []pricing.LineItem{{UnitPrice: 1, Quantity: 1}},
				index:    1,
				discount: -1,
				errIs:    pricing.ErrNegativeDiscount,
			},
			{
				name:  "unknown delivery option",
				items: []pricing.LineItem{{UnitPrice: 1, Quantity: 1}},
				index: 9,
				errIs: pricing.ErrUnknownDeliveryOption,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := newEngine().Compute(tt.items, tt.index, tt.discount, true)
				assert.ErrorIs(t, err, tt.errIs)
			})
		}
	})
}

func TestOption(t *testing.T) {
	engine := newEngine()

	opt, err := engine.Option(0)
	require.NoError(t, err)
	assert.Equal(t, "next-day", opt.Name)
	assert.Equal(t, 1, opt.DaysToDeliver)

	_, err = engine.Option(3)
	assert.ErrorIs(t, err, pricing.ErrUnknownDeliveryOption)
}
