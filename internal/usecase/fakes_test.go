//go:build unit

package usecase_test

import (
	"context"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/loyalty"
	"storefront/internal/domain/order"
	"storefront/internal/domain/referral"
	"storefront/internal/infra"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

// In-memory repository set. Every fake lives on one tx instance shared
// by Within and Direct, which is enough to exercise the decision logic;
// transactional rollback itself is the database's concern.

type fakeTx struct {
	orders     *fakeOrders
	coupons    *fakeCoupons
	loyalty    *fakeLoyalty
	rewards    *fakeRewards
	referrals  *fakeReferrals
	products   *fakeProducts
	flashSales *fakeFlashSales
	events     *fakeSettlementEvents
	users      *fakeUsers
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		orders:     &fakeOrders{byID: map[uuid.UUID]*order.Order{}, status: map[uuid.UUID]order.Status{}},
		coupons:    &fakeCoupons{byCode: map[string]*coupon.Coupon{}, redeemed: map[uuid.UUID]uuid.UUID{}, usage: map[uuid.UUID]int{}},
		loyalty:    &fakeLoyalty{byCustomer: map[uuid.UUID]*loyalty.Account{}},
		rewards:    &fakeRewards{byID: map[uuid.UUID]*loyalty.Reward{}, stock: map[uuid.UUID]int{}},
		referrals:  &fakeReferrals{byID: map[uuid.UUID]*referral.Referral{}},
		products:   &fakeProducts{byID: map[uuid.UUID]usecase.ProductSnapshot{}},
		flashSales: &fakeFlashSales{sold: map[uuid.UUID]int{}},
		events:     &fakeSettlementEvents{seen: map[string]bool{}},
		users:      &fakeUsers{byID: map[uuid.UUID]*usecase.UserSnapshot{}, byCode: map[string]*usecase.UserSnapshot{}},
	}
}

func (t *fakeTx) Orders() usecase.OrderRepository                     { return t.orders }
func (t *fakeTx) Coupons() usecase.CouponRepository                   { return t.coupons }
func (t *fakeTx) Loyalty() usecase.LoyaltyRepository                  { return t.loyalty }
func (t *fakeTx) Rewards() usecase.RewardRepository                   { return t.rewards }
func (t *fakeTx) Referrals() usecase.ReferralRepository               { return t.referrals }
func (t *fakeTx) Products() usecase.ProductRepository                 { return t.products }
func (t *fakeTx) FlashSales() usecase.FlashSaleRepository             { return t.flashSales }
func (t *fakeTx) SettlementEvents() usecase.SettlementEventRepository { return t.events }
func (t *fakeTx) Users() usecase.UserRepository                       { return t.users }

type fakeUoW struct {
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: newFakeTx()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) Direct() usecase.Tx {
	return u.tx
}

// ---- orders ----

type fakeOrders struct {
	byID   map[uuid.UUID]*order.Order
	status map[uuid.UUID]order.Status
}

func (f *fakeOrders) Create(_ context.Context, o *order.Order) error {
	f.byID[o.ID()] = o
	f.status[o.ID()] = o.Status()
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return o, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range f.byID {
		if o.UserID() == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) TransitionToPaid(_ context.Context, o *order.Order) (bool, error) {
	if f.status[o.ID()] != order.StatusCreated {
		return false, nil
	}
	f.status[o.ID()] = order.StatusPaid
	return true, nil
}

func (f *fakeOrders) TransitionToDelivered(_ context.Context, o *order.Order) (bool, error) {
	if f.status[o.ID()] != order.StatusPaid {
		return false, nil
	}
	f.status[o.ID()] = order.StatusDelivered
	return true, nil
}

// ---- coupons ----

type fakeCoupons struct {
	byCode   map[string]*coupon.Coupon
	redeemed map[uuid.UUID]uuid.UUID // orderID -> couponID
	usage    map[uuid.UUID]int
}

func (f *fakeCoupons) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := f.byCode[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return c, nil
}

func (f *fakeCoupons) ApplyToOrder(_ context.Context, couponID, orderID uuid.UUID) (bool, error) {
	if _, ok := f.redeemed[orderID]; ok {
		return false, nil
	}
	c := f.find(couponID)
	if c != nil && f.usage[couponID]+c.UsageCount() >= c.UsageLimit() {
		return false, infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConstraintViolated)
	}
	f.redeemed[orderID] = couponID
	f.usage[couponID]++
	return true, nil
}

func (f *fakeCoupons) find(id uuid.UUID) *coupon.Coupon {
	for _, c := range f.byCode {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// ---- loyalty ----

type fakeLoyalty struct {
	byCustomer map[uuid.UUID]*loyalty.Account
	failAppend bool
	appended   int
}

func (f *fakeLoyalty) FindByCustomer(_ context.Context, customerID uuid.UUID) (*loyalty.Account, error) {
	a, ok := f.byCustomer[customerID]
	if !ok {
		return nil, infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)
	}
	return a, nil
}

func (f *fakeLoyalty) Create(_ context.Context, a *loyalty.Account) error {
	f.byCustomer[a.CustomerID()] = a
	return nil
}

func (f *fakeLoyalty) AppendEntry(_ context.Context, _ uuid.UUID, _ loyalty.PointsEntry) error {
	if f.failAppend {
		return infra.WrapRepoErr("append failed", nil, infra.KindDBFailure)
	}
	f.appended++
	return nil
}

func (f *fakeLoyalty) AppendTierEntry(_ context.Context, _ uuid.UUID, _ loyalty.TierEntry) error {
	return nil
}

func (f *fakeLoyalty) SetBalanceAndTier(_ context.Context, _ uuid.UUID, _ int, _ loyalty.Tier, _ time.Time) error {
	return nil
}

func (f *fakeLoyalty) RetagEntriesExpired(_ context.Context, _ []uuid.UUID) error {
	return nil
}

// ---- rewards ----

type fakeRewards struct {
	byID  map[uuid.UUID]*loyalty.Reward
	stock map[uuid.UUID]int
}

func (f *fakeRewards) FindByID(_ context.Context, id uuid.UUID) (*loyalty.Reward, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("reward not found", nil, infra.KindNotFound)
	}
	return loyalty.ReconstructReward(r.ID(), r.Name(), r.CostPoints(), f.stock[id]), nil
}

func (f *fakeRewards) DecrementStock(_ context.Context, id uuid.UUID) error {
	if f.stock[id] <= 0 {
		return infra.WrapRepoErr("reward out of stock", nil, infra.KindConstraintViolated)
	}
	f.stock[id]--
	return nil
}

// ---- referrals ----

type fakeReferrals struct {
	byID     map[uuid.UUID]*referral.Referral
	attempts []referral.Attempt
	tier     referral.RewardTier
}

func (f *fakeReferrals) Create(_ context.Context, r *referral.Referral) error {
	for _, existing := range f.byID {
		if existing.ReferredUserID() == r.ReferredUserID() {
			return infra.WrapRepoErr("user already referred", nil, infra.KindDuplicateKey)
		}
	}
	f.byID[r.ID()] = r
	return nil
}

func (f *fakeReferrals) FindPendingByReferredUser(_ context.Context, userID uuid.UUID) (*referral.Referral, error) {
	for _, r := range f.byID {
		if r.ReferredUserID() == userID && r.Status() == referral.StatusPending {
			return r, nil
		}
	}
	return nil, infra.WrapRepoErr("pending referral not found", nil, infra.KindNotFound)
}

func (f *fakeReferrals) ListByReferrer(_ context.Context, referrerID uuid.UUID) ([]*referral.Referral, error) {
	var out []*referral.Referral
	for _, r := range f.byID {
		if r.ReferrerID() == referrerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReferrals) MarkCompleted(_ context.Context, r *referral.Referral) (bool, error) {
	_, ok := f.byID[r.ID()]
	return ok, nil
}

func (f *fakeReferrals) RecordAttempt(_ context.Context, a referral.Attempt) error {
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeReferrals) DefaultRewardTier(_ context.Context) (referral.RewardTier, error) {
	return f.tier, nil
}

// ---- products ----

type fakeProducts struct {
	byID map[uuid.UUID]usecase.ProductSnapshot
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]usecase.ProductSnapshot, error) {
	var out []usecase.ProductSnapshot
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) DeductStock(_ context.Context, productID uuid.UUID, qty int) error {
	p, ok := f.byID[productID]
	if !ok || p.CountInStock < qty {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConstraintViolated)
	}
	p.CountInStock -= qty
	p.NumSales += qty
	f.byID[productID] = p
	return nil
}

// ---- flash sales ----

type fakeFlashSales struct {
	sold map[uuid.UUID]int
}

func (f *fakeFlashSales) IncrementSold(_ context.Context, productID uuid.UUID, qty int, _ time.Time) error {
	f.sold[productID] += qty
	return nil
}

// ---- settlement events ----

type fakeSettlementEvents struct {
	seen map[string]bool
}

func (f *fakeSettlementEvents) TryInsert(_ context.Context, orderID uuid.UUID, eventType string) (bool, error) {
	key := orderID.String() + "/" + eventType
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

// ---- users ----

type fakeUsers struct {
	byID   map[uuid.UUID]*usecase.UserSnapshot
	byCode map[string]*usecase.UserSnapshot
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*usecase.UserSnapshot, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

func (f *fakeUsers) FindByReferralCode(_ context.Context, code string) (*usecase.UserSnapshot, error) {
	u, ok := f.byCode[code]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

// ---- gateways ----

type fakeGateway struct {
	result order.PaymentResult
	err    error
	calls  int
}

func (g *fakeGateway) Capture(_ context.Context, o *order.Order) (order.PaymentResult, error) {
	g.calls++
	if g.err != nil {
		return order.PaymentResult{}, g.err
	}
	if g.result.ProviderTxID == "" {
		return order.PaymentResult{
			ProviderTxID:   "fake-tx",
			Status:         order.PaymentStatusSucceeded,
			AmountCaptured: o.TotalPrice(),
		}, nil
	}
	return g.result, nil
}

type fakeResolver struct {
	gateway *fakeGateway
}

func (r *fakeResolver) Resolve(_ order.PaymentMethod) (usecase.PaymentGateway, error) {
	return r.gateway, nil
}
