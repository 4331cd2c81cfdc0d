//go:build unit

package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/order"
	"storefront/internal/domain/pricing"
	"storefront/internal/infra/gateway"
	"storefront/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturableOrder(t *testing.T) *order.Order {
	t.Helper()
	items := []order.LineItem{
		{ProductID: uuid.New(), Name: "jacket", Quantity: 2, UnitPrice: 50.00, StockAtOrder: 8},
	}
	quote := pricing.Quote{
		ItemsPrice:        100.00,
		ShippingPrice:     0,
		TaxPrice:          15.00,
		TotalPrice:        115.00,
		DeliveryDateIndex: 1,
		Final:             true,
	}
	addr := order.Address{FullName: "Jo Doe", Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
	o, err := order.NewOrder(uuid.New(), items, addr, order.MethodCard, nil, 0, quote,
		time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func cardConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		CardBaseURL:   baseURL,
		CardAPIKey:    "test-key",
		WalletBaseURL: baseURL,
		WalletAPIKey:  "test-key",
		Timeout:       time.Second,
	}
}

func TestCardGatewayCapture(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the capture and normalizes the response", func(t *testing.T) {
		o := newCapturableOrder(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/captures", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				OrderID  uuid.UUID `json:"order_id"`
				Amount   float64   `json:"amount"`
				Currency string    `json:"currency"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, o.ID(), req.OrderID)
			assert.InDelta(t, 115.00, req.Amount, 1e-9)
			assert.Equal(t, "USD", req.Currency)

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"transaction_id": "tx-42",
				"status":         order.PaymentStatusSucceeded,
				"amount":         req.Amount,
			})
		}))
		defer srv.Close()

		g := gateway.NewCardGateway(cardConfig(srv.URL))
		result, err := g.Capture(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, "tx-42", result.ProviderTxID)
		assert.Equal(t, order.PaymentStatusSucceeded, result.Status)
		assert.InDelta(t, 115.00, result.AmountCaptured, 1e-9)
	})

	t.Run("4xx is a decline", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"card_declined"}`, http.StatusPaymentRequired)
		}))
		defer srv.Close()

		g := gateway.NewCardGateway(cardConfig(srv.URL))
		_, err := g.Capture(ctx, newCapturableOrder(t))
		assert.ErrorIs(t, err, gateway.ErrCaptureDeclined)
	})

	t.Run("5xx means the gateway is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		g := gateway.NewCardGateway(cardConfig(srv.URL))
		_, err := g.Capture(ctx, newCapturableOrder(t))
		assert.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
	})

	t.Run("unreachable host is unavailable", func(t *testing.T) {
		g := gateway.NewCardGateway(cardConfig("http://127.0.0.1:1"))
		_, err := g.Capture(ctx, newCapturableOrder(t))
		assert.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
	})
}

func TestManualGatewayCapture(t *testing.T) {
	o := newCapturableOrder(t)

	g := gateway.NewManualGateway()
	result, err := g.Capture(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusSucceeded, result.Status)
	assert.InDelta(t, o.TotalPrice(), result.AmountCaptured, 1e-9)
	assert.NotEmpty(t, result.ProviderTxID)
}

func TestRegistryResolve(t *testing.T) {
	r := gateway.NewRegistry(cardConfig("http://localhost:18080"))

	for _, method := range []order.PaymentMethod{order.MethodCard, order.MethodWallet, order.MethodCOD} {
		g, err := r.Resolve(method)
		require.NoError(t, err)
		assert.NotNil(t, g)
	}

	_, err := r.Resolve(order.PaymentMethod("barter"))
	assert.ErrorIs(t, err, gateway.ErrUnsupportedPaymentMethod)
}
