package repository

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type CouponRepository struct {
	dbtx db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{dbtx: dbtx}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized := strings.TrimSpace(strings.ToUpper(code))

	var (
		id               uuid.UUID
		storedCode       string
		percentOff       float64
		startsAt, endsAt time.Time
		limit, count     int
	)
	err := r.dbtx.QueryRow(ctx, `
		SELECT id, code, percent_off, starts_at, ends_at, usage_limit, usage_count
		FROM coupons WHERE code = $1`, normalized,
	).Scan(&id, &storedCode, &percentOff, &startsAt, &endsAt, &limit, &count)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	c, err := coupon.NewCoupon(id, storedCode, percentOff, startsAt, endsAt, limit, count)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to reconstruct coupon", err)
	}
	return c, nil
}

// ApplyToOrder consumes one usage for an order. The redemption row's
// unique order_id makes replays a no-op, and the guarded increment can
// never push usage_count past usage_limit.
func (r *CouponRepository) ApplyToOrder(ctx context.Context, couponID, orderID uuid.UUID) (bool, error) {
	tag, err := r.dbtx.Exec(ctx, `
		INSERT INTO coupon_redemptions (coupon_id, order_id)
		VALUES ($1, $2)
		ON CONFLICT (order_id) DO NOTHING`, couponID, orderID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to record coupon redemption", err)
	}
	if tag.RowsAffected() == 0 {
		// This order already consumed the coupon.
		return false, nil
	}

	tag, err = r.dbtx.Exec(ctx, `
		UPDATE coupons SET usage_count = usage_count + 1
		WHERE id = $1 AND usage_count < usage_limit`, couponID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return false, infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConstraintViolated)
	}
	return true, nil
}
