package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/loyalty"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrRewardNotFound       = errs.New("reward not found")
	ErrInsufficientPoints   = errs.New("insufficient points")
	ErrRewardOutOfStock     = errs.New("reward is out of stock")
	ErrLoyaltyWriteConflict = errs.New("loyalty account write conflict")
)

// ExpireAfter is how long earned points stay redeemable.
const ExpireAfter = 365 * 24 * time.Hour

type LoyaltyCommands interface {
	// Account returns the customer's loyalty account, creating an empty
	// bronze one on first touch.
	Account(ctx context.Context, customerID uuid.UUID) (*loyalty.Account, error)
	Award(ctx context.Context, customerID uuid.UUID, points int, description string) (*loyalty.Account, error)
	Redeem(ctx context.Context, customerID, rewardID uuid.UUID) (*loyalty.Account, error)
	// ExpirePoints sweeps entries older than ExpireAfter.
	ExpirePoints(ctx context.Context, customerID uuid.UUID) (loyalty.ExpireResult, error)
}

type loyaltyUseCaseImpl struct {
	uow   UnitOfWork
	clock clock.Clock
}

func NewLoyaltyUseCase(uow UnitOfWork, clock clock.Clock) LoyaltyCommands {
	return &loyaltyUseCaseImpl{uow: uow, clock: clock}
}

func (u *loyaltyUseCaseImpl) Account(ctx context.Context, customerID uuid.UUID) (*loyalty.Account, error) {
	var account *loyalty.Account
	err := u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		account, err = findOrCreateAccount(ctx, tx, customerID, u.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (u *loyaltyUseCaseImpl) Award(ctx context.Context, customerID uuid.UUID, points int, description string) (*loyalty.Account, error) {
	var account *loyalty.Account
	err := u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		account, err = awardPoints(ctx, tx, customerID, points, description, u.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (u *loyaltyUseCaseImpl) Redeem(ctx context.Context, customerID, rewardID uuid.UUID) (*loyalty.Account, error) {
	var account *loyalty.Account
	err := u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		now := u.clock.Now()

		reward, err := tx.Rewards().FindByID(ctx, rewardID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrRewardNotFound)
			}
			return err
		}

		account, err = findOrCreateAccount(ctx, tx, customerID, now)
		if err != nil {
			return err
		}

		mut, err := account.Redeem(reward, now)
		if err != nil {
			switch {
			case errors.Is(err, loyalty.ErrInsufficientPoints):
				return errs.Mark(err, ErrInsufficientPoints)
			case errors.Is(err, loyalty.ErrRewardOutOfStock):
				return errs.Mark(err, ErrRewardOutOfStock)
			}
			return err
		}

		// The guarded decrement closes the race between the stock check
		// above and a concurrent redemption.
		if err := tx.Rewards().DecrementStock(ctx, rewardID); err != nil {
			if infra.IsKind(err, infra.KindConstraintViolated) {
				return errs.Mark(err, ErrRewardOutOfStock)
			}
			return err
		}

		return persistMutation(ctx, tx, account, mut, now)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (u *loyaltyUseCaseImpl) ExpirePoints(ctx context.Context, customerID uuid.UUID) (loyalty.ExpireResult, error) {
	var result loyalty.ExpireResult
	err := u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		now := u.clock.Now()

		account, err := findOrCreateAccount(ctx, tx, customerID, now)
		if err != nil {
			return err
		}

		result = account.Expire(now.Add(-ExpireAfter), now)
		if result.Entry == nil {
			return nil
		}

		if err := tx.Loyalty().RetagEntriesExpired(ctx, result.RetaggedIDs); err != nil {
			return err
		}
		if err := tx.Loyalty().AppendEntry(ctx, account.ID(), *result.Entry); err != nil {
			return err
		}
		if result.TierChange != nil {
			if err := tx.Loyalty().AppendTierEntry(ctx, account.ID(), *result.TierChange); err != nil {
				return err
			}
		}
		return tx.Loyalty().SetBalanceAndTier(ctx, account.ID(), result.NewBalance, result.NewTier, now)
	})
	if err != nil {
		return loyalty.ExpireResult{}, err
	}
	return result, nil
}

// awardPoints is the single write-path for earning points, shared by the
// HTTP surface and settlement so referral rewards and order rewards go
// through identical bookkeeping.
func awardPoints(ctx context.Context, tx Tx, customerID uuid.UUID, points int, description string, now time.Time) (*loyalty.Account, error) {
	account, err := findOrCreateAccount(ctx, tx, customerID, now)
	if err != nil {
		return nil, err
	}

	mut, err := account.Award(points, description, now)
	if err != nil {
		return nil, err
	}

	if err := persistMutation(ctx, tx, account, mut, now); err != nil {
		return nil, err
	}
	return account, nil
}

func findOrCreateAccount(ctx context.Context, tx Tx, customerID uuid.UUID, now time.Time) (*loyalty.Account, error) {
	account, err := tx.Loyalty().FindByCustomer(ctx, customerID)
	if err == nil {
		return account, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	account = loyalty.NewAccount(customerID, now)
	if err := tx.Loyalty().Create(ctx, account); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Lost the creation race; the winner's row is authoritative.
			return nil, errs.Mark(err, ErrLoyaltyWriteConflict)
		}
		return nil, err
	}
	return account, nil
}

func persistMutation(ctx context.Context, tx Tx, account *loyalty.Account, mut loyalty.Mutation, now time.Time) error {
	if err := tx.Loyalty().AppendEntry(ctx, account.ID(), mut.Entry); err != nil {
		return err
	}
	if mut.TierChange != nil {
		if err := tx.Loyalty().AppendTierEntry(ctx, account.ID(), *mut.TierChange); err != nil {
			return err
		}
	}
	return tx.Loyalty().SetBalanceAndTier(ctx, account.ID(), mut.NewBalance, mut.NewTier, now)
}
