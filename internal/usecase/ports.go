package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/loyalty"
	"storefront/internal/domain/order"
	"storefront/internal/domain/referral"

	"github.com/google/uuid"
)

// Settlement event types, one durable row per (order, type).
const (
	EventOrderPaid      = "paid"
	EventOrderDelivered = "delivered"
)

// UnitOfWork runs a function against a transactional repository set.
// Direct returns pool-bound repositories for work that must not roll
// back with a surrounding transaction (audit trails) or needs none.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Direct() Tx
}

type Tx interface {
	Orders() OrderRepository
	Coupons() CouponRepository
	Loyalty() LoyaltyRepository
	Rewards() RewardRepository
	Referrals() ReferralRepository
	Products() ProductRepository
	FlashSales() FlashSaleRepository
	SettlementEvents() SettlementEventRepository
	Users() UserRepository
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error)
	// TransitionToPaid persists a paid transition with a status
	// compare-and-swap; false means another settlement won the race.
	TransitionToPaid(ctx context.Context, o *order.Order) (bool, error)
	TransitionToDelivered(ctx context.Context, o *order.Order) (bool, error)
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	// ApplyToOrder increments usage at most once per order; false means
	// this order already consumed the coupon.
	ApplyToOrder(ctx context.Context, couponID, orderID uuid.UUID) (bool, error)
}

type LoyaltyRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*loyalty.Account, error)
	Create(ctx context.Context, a *loyalty.Account) error
	AppendEntry(ctx context.Context, accountID uuid.UUID, e loyalty.PointsEntry) error
	AppendTierEntry(ctx context.Context, accountID uuid.UUID, e loyalty.TierEntry) error
	SetBalanceAndTier(ctx context.Context, accountID uuid.UUID, balance int, tier loyalty.Tier, now time.Time) error
	RetagEntriesExpired(ctx context.Context, ids []uuid.UUID) error
}

type RewardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Reward, error)
	// DecrementStock is guarded by stock > 0 in the store.
	DecrementStock(ctx context.Context, id uuid.UUID) error
}

type ReferralRepository interface {
	// Create relies on the store's unique referred-user constraint;
	// a duplicate surfaces as a DUPLICATE_KEY repository error.
	Create(ctx context.Context, r *referral.Referral) error
	FindPendingByReferredUser(ctx context.Context, userID uuid.UUID) (*referral.Referral, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*referral.Referral, error)
	// MarkCompleted persists a pending→completed compare-and-swap.
	MarkCompleted(ctx context.Context, r *referral.Referral) (bool, error)
	RecordAttempt(ctx context.Context, a referral.Attempt) error
	DefaultRewardTier(ctx context.Context) (referral.RewardTier, error)
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSnapshot, error)
	// DeductStock decrements stock and bumps the sales counter in one
	// guarded statement; insufficient stock is a constraint error.
	DeductStock(ctx context.Context, productID uuid.UUID, qty int) error
}

type FlashSaleRepository interface {
	// IncrementSold bumps the sold counter of every campaign active at
	// now that includes the product.
	IncrementSold(ctx context.Context, productID uuid.UUID, qty int, now time.Time) error
}

type SettlementEventRepository interface {
	// TryInsert records the event if absent; false means it already
	// existed and the fan-out must not run again.
	TryInsert(ctx context.Context, orderID uuid.UUID, eventType string) (bool, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	FindByReferralCode(ctx context.Context, code string) (*UserSnapshot, error)
}

// Write-side snapshots keep the usecases off the storage row shapes.
type ProductSnapshot struct {
	ID           uuid.UUID
	Name         string
	Variant      string
	Price        float64
	CountInStock int
	NumSales     int
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	Role         string
	ReferralCode *string
}
