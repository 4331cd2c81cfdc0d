package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
)

var (
	ErrCouponNotFound  = errs.New("coupon not found")
	ErrCouponExpired   = errs.New("coupon is outside its validity window")
	ErrCouponExhausted = errs.New("coupon usage limit reached")
)

// CouponValidation is the read-only preview of applying a coupon to a
// cart, before any order exists.
type CouponValidation struct {
	Coupon   *coupon.Coupon
	Discount float64
}

type CouponQueries interface {
	Validate(ctx context.Context, code string, itemsPrice float64) (*CouponValidation, error)
}

type couponUseCaseImpl struct {
	uow   UnitOfWork
	clock clock.Clock
}

func NewCouponUseCase(uow UnitOfWork, clock clock.Clock) CouponQueries {
	return &couponUseCaseImpl{uow: uow, clock: clock}
}

func (u *couponUseCaseImpl) Validate(ctx context.Context, code string, itemsPrice float64) (*CouponValidation, error) {
	c, err := u.uow.Direct().Coupons().FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrCouponNotFound)
		}
		return nil, err
	}

	if err := c.ValidateUsage(u.clock.Now()); err != nil {
		switch {
		case errors.Is(err, coupon.ErrCouponExpired):
			return nil, errs.Mark(err, ErrCouponExpired)
		case errors.Is(err, coupon.ErrCouponExhausted):
			return nil, errs.Mark(err, ErrCouponExhausted)
		}
		return nil, err
	}

	return &CouponValidation{
		Coupon:   c,
		Discount: c.DiscountAmount(itemsPrice),
	}, nil
}
