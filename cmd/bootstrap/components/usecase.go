package components

import (
	"storefront/internal/domain/pricing"
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewPricingEngine,
		usecase.NewSettlementService,
		usecase.NewOrderUseCase,
		usecase.NewCouponUseCase,
		usecase.NewLoyaltyUseCase,
		usecase.NewReferralUseCase,
	),
)

func NewPricingEngine() *pricing.Engine {
	return pricing.NewEngine(pricing.DefaultOptions())
}
