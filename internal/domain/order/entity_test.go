//go:build unit

package order_test

import (
	"testing"
	"time"

	"storefront/internal/domain/order"
	"storefront/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func finalQuote() pricing.Quote {
	return pricing.Quote{
		ItemsPrice:        125.00,
		ShippingPrice:     0,
		TaxPrice:          18.75,
		TotalPrice:        143.75,
		DeliveryDateIndex: 1,
		Final:             true,
	}
}

func testItems() []order.LineItem {
	return []order.LineItem{
		{ProductID: uuid.New(), Name: "jacket", Quantity: 2, UnitPrice: 50.00, StockAtOrder: 8},
		{ProductID: uuid.New(), Name: "scarf", Quantity: 1, UnitPrice: 25.00, StockAtOrder: 3},
	}
}

func testAddress() order.Address {
	return order.Address{
		FullName:   "Jo Doe",
		Street:     "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), testItems(), testAddress(), order.MethodCard, nil, 0, finalQuote(), now)
	require.NoError(t, err)
	return o
}

func succeededCapture(amount float64) order.PaymentResult {
	return order.PaymentResult{
		ProviderTxID:   "tx-123",
		Status:         order.PaymentStatusSucceeded,
		AmountCaptured: amount,
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("valid order starts created", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Equal(t, order.StatusCreated, o.Status())
		assert.False(t, o.IsPaid())
		assert.InDelta(t, 143.75, o.TotalPrice(), 1e-9)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := order.NewOrder(uuid.New(), nil, testAddress(), order.MethodCard, nil, 0, finalQuote(), now)
		assert.ErrorIs(t, err, order.ErrNoLineItems)
	})

	t.Run("rejects non-final quote", func(t *testing.T) {
		q := finalQuote()
		q.Final = false
		_, err := order.NewOrder(uuid.New(), testItems(), testAddress(), order.MethodCard, nil, 0, q, now)
		assert.ErrorIs(t, err, order.ErrQuoteNotFinal)
	})

	t.Run("rejects broken price invariant", func(t *testing.T) {
		q := finalQuote()
		q.TotalPrice = 999.99
		_, err := order.NewOrder(uuid.New(), testItems(), testAddress(), order.MethodCard, nil, 0, q, now)
		assert.ErrorIs(t, err, order.ErrPriceInvariantBroken)
	})

	t.Run("discount folds into the invariant", func(t *testing.T) {
		q := finalQuote()
		q.TotalPrice = 131.25
		o, err := order.NewOrder(uuid.New(), testItems(), testAddress(), order.MethodCard, nil, 12.50, q, now)
		require.NoError(t, err)
		assert.InDelta(t, 12.50, o.DiscountAmount(), 1e-9)
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("created to paid", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.MarkPaid(succeededCapture(143.75), now))

		assert.Equal(t, order.StatusPaid, o.Status())
		assert.True(t, o.IsPaid())
		require.NotNil(t, o.PaymentResult())
		assert.Equal(t, "tx-123", o.PaymentResult().ProviderTxID)
		require.NotNil(t, o.Timestamps().PaidAt)
	})

	t.Run("second payment is a typed replay error", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaid(succeededCapture(143.75), now))

		err := o.MarkPaid(succeededCapture(143.75), now)
		assert.ErrorIs(t, err, order.ErrAlreadyPaid)
	})

	t.Run("cancelled order cannot be paid", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(now))

		err := o.MarkPaid(succeededCapture(143.75), now)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("rejects non-succeeded capture", func(t *testing.T) {
		o := newTestOrder(t)
		result := succeededCapture(143.75)
		result.Status = "declined"

		err := o.MarkPaid(result, now)
		assert.ErrorIs(t, err, order.ErrPaymentNotSucceeded)
		assert.Equal(t, order.StatusCreated, o.Status())
	})

	t.Run("rejects amount mismatch", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.MarkPaid(succeededCapture(143.74), now)
		assert.ErrorIs(t, err, order.ErrCaptureAmountMismatch)
		assert.Equal(t, order.StatusCreated, o.Status())
	})

	t.Run("captured amount tolerates float residue", func(t *testing.T) {
		o := newTestOrder(t)
		assert.NoError(t, o.MarkPaid(succeededCapture(143.7500000001), now))
	})
}

func TestMarkDelivered(t *testing.T) {
	t.Run("paid to delivered", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaid(succeededCapture(143.75), now))

		require.NoError(t, o.MarkDelivered(now))
		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.True(t, o.IsDelivered())
		require.NotNil(t, o.Timestamps().DeliveredAt)
	})

	t.Run("created order cannot be delivered", func(t *testing.T) {
		o := newTestOrder(t)
		assert.ErrorIs(t, o.MarkDelivered(now), order.ErrInvalidTransition)
	})

	t.Run("second delivery is a typed replay error", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaid(succeededCapture(143.75), now))
		require.NoError(t, o.MarkDelivered(now))

		assert.ErrorIs(t, o.MarkDelivered(now), order.ErrAlreadyDelivered)
	})
}

func TestCancel(t *testing.T) {
	t.Run("created order can cancel", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(now))
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("paid order cannot cancel", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaid(succeededCapture(143.75), now))
		assert.ErrorIs(t, o.Cancel(now), order.ErrInvalidTransition)
	})
}
