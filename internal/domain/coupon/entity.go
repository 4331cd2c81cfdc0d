package coupon

import (
	"errors"
	"time"

	"storefront/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExpired   = errors.New("coupon is outside its validity window")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

type Coupon struct {
	id         uuid.UUID
	code       Code
	percentOff float64
	startDate  time.Time
	endDate    time.Time
	usageLimit int
	usageCount int
}

func NewCoupon(
	id uuid.UUID,
	code string,
	percentOff float64,
	startDate, endDate time.Time,
	usageLimit, usageCount int,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if percentOff <= 0 || percentOff > 100 {
		return nil, ErrInvalidPercent
	}

	return &Coupon{
		id:         id,
		code:       couponCode,
		percentOff: percentOff,
		startDate:  startDate,
		endDate:    endDate,
		usageLimit: usageLimit,
		usageCount: usageCount,
	}, nil
}

// ValidateUsage reports whether the coupon can be consumed at t.
// Validation never mutates the coupon.
func (c *Coupon) ValidateUsage(t time.Time) error {
	if t.Before(c.startDate) || t.After(c.endDate) {
		return ErrCouponExpired
	}
	if c.usageCount >= c.usageLimit {
		return ErrCouponExhausted
	}
	return nil
}

// DiscountAmount is the frozen discount for an order with the given item
// subtotal. Computed once at order creation; later coupon edits must not
// change already-settled orders.
func (c *Coupon) DiscountAmount(itemsPrice float64) float64 {
	return money.Round2(itemsPrice * c.percentOff / 100)
}

func (c *Coupon) ID() uuid.UUID        { return c.id }
func (c *Coupon) Code() Code           { return c.code }
func (c *Coupon) PercentOff() float64  { return c.percentOff }
func (c *Coupon) StartDate() time.Time { return c.startDate }
func (c *Coupon) EndDate() time.Time   { return c.endDate }
func (c *Coupon) UsageLimit() int      { return c.usageLimit }
func (c *Coupon) UsageCount() int      { return c.usageCount }
