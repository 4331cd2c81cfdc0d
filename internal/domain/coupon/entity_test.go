//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"storefront/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCoupon(t *testing.T, percentOff float64, start, end time.Time, limit, used int) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(uuid.New(), "SAVE10", percentOff, start, end, limit, used)
	require.NoError(t, err)
	return c
}

func TestNewCode(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		errIs error
	}{
		{name: "valid upper", in: "SAVE10", want: "SAVE10"},
		{name: "normalizes case and whitespace", in: "  save10 ", want: "SAVE10"},
		{name: "too short", in: "AB", errIs: coupon.ErrInvalidCouponCode},
		{name: "too long", in: "ABCDEFGHIJKLMNOPQRSTU", errIs: coupon.ErrInvalidCouponCode},
		{name: "illegal characters", in: "SAVE-10", errIs: coupon.ErrInvalidCouponCode},
		{name: "empty", in: "", errIs: coupon.ErrInvalidCouponCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := coupon.NewCode(tt.in)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, code.String())
		})
	}
}

func TestNewCoupon(t *testing.T) {
	now := time.Now()

	t.Run("rejects percent out of range", func(t *testing.T) {
		for _, pct := range []float64{0, -5, 101} {
			_, err := coupon.NewCoupon(uuid.New(), "SAVE10", pct, now, now.Add(time.Hour), 10, 0)
			assert.ErrorIs(t, err, coupon.ErrInvalidPercent)
		}
	})

	t.Run("accepts full discount", func(t *testing.T) {
		_, err := coupon.NewCoupon(uuid.New(), "SAVE10", 100, now, now.Add(time.Hour), 10, 0)
		assert.NoError(t, err)
	})
}

func TestValidateUsage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-24 * time.Hour)
	end := now.Add(24 * time.Hour)

	tests := []struct {
		name  string
		at    time.Time
		limit int
		used  int
		errIs error
	}{
		{name: "inside window with capacity", at: now, limit: 5, used: 4},
		{name: "before start", at: start.Add(-time.Minute), limit: 5, used: 0, errIs: coupon.ErrCouponExpired},
		{name: "after end", at: end.Add(time.Minute), limit: 5, used: 0, errIs: coupon.ErrCouponExpired},
		{name: "exhausted", at: now, limit: 5, used: 5, errIs: coupon.ErrCouponExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCoupon(t, 10, start, end, tt.limit, tt.used)
			err := c.ValidateUsage(tt.at)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("validation never mutates usage", func(t *testing.T) {
		c := mustCoupon(t, 10, start, end, 5, 2)
		for range 3 {
			require.NoError(t, c.ValidateUsage(now))
		}
		assert.Equal(t, 2, c.UsageCount())
	})
}

func TestDiscountAmount(t *testing.T) {
	now := time.Now()
	c := mustCoupon(t, 10, now, now.Add(time.Hour), 5, 0)

	assert.InDelta(t, 12.50, c.DiscountAmount(125.00), 1e-9)
	assert.InDelta(t, 0.01, c.DiscountAmount(0.10), 1e-9)
	assert.InDelta(t, 0, c.DiscountAmount(0), 1e-9)
}
