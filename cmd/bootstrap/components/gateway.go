package components

import (
	"storefront/internal/infra/gateway"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewGatewayRegistry,
	),
)

func NewGatewayRegistry(cfg config.Config) usecase.GatewayResolver {
	return gateway.NewRegistry(cfg.Gateway)
}
