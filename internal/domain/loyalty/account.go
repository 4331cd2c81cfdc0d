package loyalty

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPoints      = errors.New("points must be positive")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrRewardOutOfStock   = errors.New("reward is out of stock")
)

type EntryKind string

const (
	KindEarned   EntryKind = "earned"
	KindRedeemed EntryKind = "redeemed"
	KindExpired  EntryKind = "expired"
	KindAdjusted EntryKind = "adjusted"
)

// PointsEntry is one append-only row of the points history. Delta is
// signed; the account balance always equals the sum of all deltas.
type PointsEntry struct {
	ID          uuid.UUID
	Delta       int
	Kind        EntryKind
	Description string
	CreatedAt   time.Time
}

type TierEntry struct {
	ID        uuid.UUID
	Tier      Tier
	Reason    string
	CreatedAt time.Time
}

// Account is the per-customer loyalty aggregate. The balance is stored
// redundantly and reconciled on every mutation; the history is the
// authoritative record.
type Account struct {
	id            uuid.UUID
	customerID    uuid.UUID
	balance       int
	tier          Tier
	pointsHistory []PointsEntry
	tierHistory   []TierEntry
}

// Mutation describes what a single award/redeem did, for persistence.
type Mutation struct {
	Entry      PointsEntry
	TierChange *TierEntry
	NewBalance int
	NewTier    Tier
}

// ExpireResult describes an expiration sweep: the source entries that
// were re-tagged plus the compensating negative entry that keeps the
// balance equal to the history sum.
type ExpireResult struct {
	RetaggedIDs   []uuid.UUID
	PointsExpired int
	Entry         *PointsEntry
	TierChange    *TierEntry
	NewBalance    int
	NewTier       Tier
}

// NewAccount creates a zero-balance bronze account with a seed history
// entry. Accounts are created lazily on first award and never deleted.
func NewAccount(customerID uuid.UUID, now time.Time) *Account {
	a := &Account{
		id:         uuid.New(),
		customerID: customerID,
		balance:    0,
		tier:       TierBronze,
	}
	a.pointsHistory = append(a.pointsHistory, PointsEntry{
		ID:          uuid.New(),
		Delta:       0,
		Kind:        KindAdjusted,
		Description: "account created",
		CreatedAt:   now,
	})
	a.tierHistory = append(a.tierHistory, TierEntry{
		ID:        uuid.New(),
		Tier:      TierBronze,
		Reason:    "account created",
		CreatedAt: now,
	})
	return a
}

func ReconstructAccount(
	id, customerID uuid.UUID,
	balance int,
	tier Tier,
	pointsHistory []PointsEntry,
	tierHistory []TierEntry,
) *Account {
	return &Account{
		id:            id,
		customerID:    customerID,
		balance:       balance,
		tier:          tier,
		pointsHistory: pointsHistory,
		tierHistory:   tierHistory,
	}
}

// Award appends an earned entry and reconciles balance and tier.
func (a *Account) Award(points int, description string, now time.Time) (Mutation, error) {
	if points <= 0 {
		return Mutation{}, ErrInvalidPoints
	}
	entry := PointsEntry{
		ID:          uuid.New(),
		Delta:       points,
		Kind:        KindEarned,
		Description: description,
		CreatedAt:   now,
	}
	a.pointsHistory = append(a.pointsHistory, entry)
	a.balance += points
	tierChange := a.reconcileTier("points earned", now)

	return Mutation{
		Entry:      entry,
		TierChange: tierChange,
		NewBalance: a.balance,
		NewTier:    a.tier,
	}, nil
}

// Redeem spends points against a reward. The reward's own stock decrement
// is a separate side effect owned by the caller; the aggregate only checks
// availability and mutates the ledger. Redeeming can move a customer down
// a tier.
func (a *Account) Redeem(reward *Reward, now time.Time) (Mutation, error) {
	if reward.Stock() <= 0 {
		return Mutation{}, ErrRewardOutOfStock
	}
	if a.balance < reward.CostPoints() {
		return Mutation{}, ErrInsufficientPoints
	}
	entry := PointsEntry{
		ID:          uuid.New(),
		Delta:       -reward.CostPoints(),
		Kind:        KindRedeemed,
		Description: "redeemed: " + reward.Name(),
		CreatedAt:   now,
	}
	a.pointsHistory = append(a.pointsHistory, entry)
	a.balance -= reward.CostPoints()
	tierChange := a.reconcileTier("points redeemed", now)

	return Mutation{
		Entry:      entry,
		TierChange: tierChange,
		NewBalance: a.balance,
		NewTier:    a.tier,
	}, nil
}

// Expire re-tags still-earned entries created before the cutoff and
// appends one compensating negative expired entry for their sum, so the
// balance stays equal to the history sum. Entries already re-tagged are
// never counted twice.
func (a *Account) Expire(cutoff, now time.Time) ExpireResult {
	var ids []uuid.UUID
	var total int
	for i := range a.pointsHistory {
		e := &a.pointsHistory[i]
		if e.Kind != KindEarned || !e.CreatedAt.Before(cutoff) {
			continue
		}
		e.Kind = KindExpired
		ids = append(ids, e.ID)
		total += e.Delta
	}
	if total == 0 {
		return ExpireResult{NewBalance: a.balance, NewTier: a.tier}
	}

	if total > a.balance {
		// Part of the old points was already spent; only the unspent
		// remainder can leave the balance.
		total = a.balance
	}

	entry := PointsEntry{
		ID:          uuid.New(),
		Delta:       -total,
		Kind:        KindExpired,
		Description: "points expired",
		CreatedAt:   now,
	}
	a.pointsHistory = append(a.pointsHistory, entry)
	a.balance -= total
	tierChange := a.reconcileTier("points expired", now)

	return ExpireResult{
		RetaggedIDs:   ids,
		PointsExpired: total,
		Entry:         &entry,
		TierChange:    tierChange,
		NewBalance:    a.balance,
		NewTier:       a.tier,
	}
}

func (a *Account) reconcileTier(reason string, now time.Time) *TierEntry {
	next := TierForBalance(a.balance)
	if next == a.tier {
		return nil
	}
	a.tier = next
	entry := TierEntry{
		ID:        uuid.New(),
		Tier:      next,
		Reason:    reason,
		CreatedAt: now,
	}
	a.tierHistory = append(a.tierHistory, entry)
	return &entry
}

// HistorySum recomputes the balance from scratch; used by tests and the
// reconciliation sweep to assert the stored balance never drifts.
func (a *Account) HistorySum() int {
	var sum int
	for _, e := range a.pointsHistory {
		sum += e.Delta
	}
	return sum
}

func (a *Account) ID() uuid.UUID                { return a.id }
func (a *Account) CustomerID() uuid.UUID        { return a.customerID }
func (a *Account) Balance() int                 { return a.balance }
func (a *Account) Tier() Tier                   { return a.tier }
func (a *Account) PointsHistory() []PointsEntry { return a.pointsHistory }
func (a *Account) TierHistory() []TierEntry     { return a.tierHistory }
