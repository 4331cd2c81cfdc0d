//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoupon(t *testing.T) {
	ctx := context.Background()

	newFixture := func(t *testing.T, c *coupon.Coupon) usecase.CouponQueries {
		t.Helper()
		uow := newFakeUoW()
		if c != nil {
			uow.tx.coupons.byCode[string(c.Code())] = c
		}
		return usecase.NewCouponUseCase(uow, clock.NewMockClock(testNow))
	}

	t.Run("previews the discount without consuming usage", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.New(), "SAVE15", 15, testNow.Add(-time.Hour), testNow.Add(time.Hour), 5, 4)
		require.NoError(t, err)
		uc := newFixture(t, c)

		v, err := uc.Validate(ctx, "SAVE15", 200.00)
		require.NoError(t, err)
		assert.InDelta(t, 30.00, v.Discount, 1e-9)
		assert.Equal(t, 4, v.Coupon.UsageCount())
	})

	t.Run("unknown code", func(t *testing.T) {
		uc := newFixture(t, nil)
		_, err := uc.Validate(ctx, "NOSUCH01", 100.00)
		assert.ErrorIs(t, err, usecase.ErrCouponNotFound)
	})

	t.Run("outside the validity window", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.New(), "LATE15", 15, testNow.Add(time.Hour), testNow.Add(2*time.Hour), 5, 0)
		require.NoError(t, err)
		uc := newFixture(t, c)

		_, err = uc.Validate(ctx, "LATE15", 100.00)
		assert.ErrorIs(t, err, usecase.ErrCouponExpired)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.New(), "GONE15", 15, testNow.Add(-time.Hour), testNow.Add(time.Hour), 5, 5)
		require.NoError(t, err)
		uc := newFixture(t, c)

		_, err = uc.Validate(ctx, "GONE15", 100.00)
		assert.ErrorIs(t, err, usecase.ErrCouponExhausted)
	})
}
