package gateway

import (
	"context"
	"net/http"

	"storefront/internal/domain/order"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase"
)

type WalletGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewWalletGateway(cfg config.GatewayConfig) usecase.PaymentGateway {
	return &WalletGateway{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.WalletBaseURL,
		apiKey:  cfg.WalletAPIKey,
	}
}

func (g *WalletGateway) Capture(ctx context.Context, o *order.Order) (order.PaymentResult, error) {
	return httpCapture(ctx, g.client, g.baseURL, g.apiKey, "wallet", o)
}
