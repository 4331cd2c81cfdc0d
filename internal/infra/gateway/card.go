package gateway

import (
	"context"
	"net/http"

	"storefront/internal/domain/order"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase"
)

type CardGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewCardGateway(cfg config.GatewayConfig) usecase.PaymentGateway {
	return &CardGateway{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.CardBaseURL,
		apiKey:  cfg.CardAPIKey,
	}
}

func (g *CardGateway) Capture(ctx context.Context, o *order.Order) (order.PaymentResult, error) {
	return httpCapture(ctx, g.client, g.baseURL, g.apiKey, "card", o)
}
