package usecase

import (
	"context"
	"log/slog"

	"storefront/internal/domain/order"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/metrics"
	"storefront/internal/pkg/money"
)

// SettlementService runs the post-payment fan-out: loyalty accrual and
// referral completion. The caller guarantees at-most-once execution via
// the settlement event record; within a run, each step is isolated so a
// failing reward never unwinds a captured payment.
type SettlementService struct {
	uow   UnitOfWork
	clock clock.Clock
}

func NewSettlementService(uow UnitOfWork, clock clock.Clock) *SettlementService {
	return &SettlementService{uow: uow, clock: clock}
}

// SettlePaid fans out the side effects of a paid order. Step failures
// are logged and suppressed: the order stays paid no matter what.
func (s *SettlementService) SettlePaid(ctx context.Context, o *order.Order) {
	metrics.OrdersSettled.WithLabelValues(EventOrderPaid).Inc()

	s.runStep(ctx, o, "loyalty_award", s.awardOrderPoints)
	s.runStep(ctx, o, "referral_completion", s.completeReferral)
}

func (s *SettlementService) runStep(ctx context.Context, o *order.Order, step string, fn func(ctx context.Context, o *order.Order) error) {
	start := s.clock.Now()
	err := fn(ctx, o)
	elapsed := s.clock.Now().Sub(start).Seconds()

	if err != nil {
		metrics.RecordSettlementStep(step, "failure", elapsed)
		slog.Error("settlement step failed",
			"step", step,
			"order_id", o.ID().String(),
			"user_id", o.UserID().String(),
			"error", err.Error())
		return
	}
	metrics.RecordSettlementStep(step, "success", elapsed)
}

func (s *SettlementService) awardOrderPoints(ctx context.Context, o *order.Order) error {
	points := money.PointsFor(o.TotalPrice())
	if points == 0 {
		return nil
	}
	return s.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		_, err := awardPoints(ctx, tx, o.UserID(), points, "order "+o.ID().String(), s.clock.Now())
		return err
	})
}

func (s *SettlementService) completeReferral(ctx context.Context, o *order.Order) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		_, err := completeReferralForPurchase(ctx, tx, o.UserID(), o.TotalPrice(), s.clock.Now())
		return err
	})
}
