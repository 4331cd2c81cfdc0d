package usecase

import (
	"context"

	"storefront/internal/domain/order"
)

// PaymentGateway captures the full order total on an external payment
// channel. Implementations report a PaymentResult regardless of channel
// so settlement never branches on how the money moved.
type PaymentGateway interface {
	Capture(ctx context.Context, o *order.Order) (order.PaymentResult, error)
}

// GatewayResolver picks the gateway for an order's payment method.
type GatewayResolver interface {
	Resolve(method order.PaymentMethod) (PaymentGateway, error)
}
