package gateway

import (
	"storefront/internal/domain/order"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase"
)

var ErrUnsupportedPaymentMethod = errs.New("unsupported payment method")

// Registry maps payment methods to their gateways. All gateways are
// constructed once at startup; resolution is a map lookup.
type Registry struct {
	gateways map[order.PaymentMethod]usecase.PaymentGateway
}

func NewRegistry(cfg config.GatewayConfig) usecase.GatewayResolver {
	return &Registry{
		gateways: map[order.PaymentMethod]usecase.PaymentGateway{
			order.MethodCard:   NewCardGateway(cfg),
			order.MethodWallet: NewWalletGateway(cfg),
			order.MethodCOD:    NewManualGateway(),
		},
	}
}

func (r *Registry) Resolve(method order.PaymentMethod) (usecase.PaymentGateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, errs.Wrap(ErrUnsupportedPaymentMethod, string(method))
	}
	return g, nil
}
