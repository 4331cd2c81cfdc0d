package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/domain/referral"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReferralCodeNotFound = errs.New("referral code not found")
	ErrSelfReferral         = errs.New("cannot refer yourself")
	ErrAlreadyReferred      = errs.New("user already referred")
)

type ReferralCommands interface {
	// CreateReferral links the calling user to the owner of the code.
	// Every attempt is recorded to the audit trail, including rejected
	// ones, before the outcome is returned.
	CreateReferral(ctx context.Context, userID uuid.UUID, code string) (*referral.Referral, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*referral.Referral, error)
}

type referralUseCaseImpl struct {
	uow   UnitOfWork
	clock clock.Clock
}

func NewReferralUseCase(uow UnitOfWork, clock clock.Clock) ReferralCommands {
	return &referralUseCaseImpl{uow: uow, clock: clock}
}

func (u *referralUseCaseImpl) CreateReferral(ctx context.Context, userID uuid.UUID, code string) (*referral.Referral, error) {
	now := u.clock.Now()
	code = strings.TrimSpace(code)

	referrer, err := u.uow.Direct().Users().FindByReferralCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			u.recordAttempt(ctx, code, userID, referral.AttemptCodeNotFound, now)
			return nil, errs.Mark(err, ErrReferralCodeNotFound)
		}
		u.recordAttempt(ctx, code, userID, referral.AttemptInternalError, now)
		return nil, err
	}

	// The stored code is always the referrer's canonical one, whatever
	// casing the caller submitted.
	canonical := code
	if referrer.ReferralCode != nil {
		canonical = *referrer.ReferralCode
	}

	var ref *referral.Referral
	err = u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		tier, err := tx.Referrals().DefaultRewardTier(ctx)
		if err != nil {
			return err
		}

		ref, err = referral.NewReferral(referrer.ID, userID, canonical, tier, now)
		if err != nil {
			return err
		}
		return tx.Referrals().Create(ctx, ref)
	})
	if err != nil {
		switch {
		case errors.Is(err, referral.ErrSelfReferral):
			u.recordAttempt(ctx, code, userID, referral.AttemptSelfReferral, now)
			return nil, errs.Mark(err, ErrSelfReferral)
		case infra.IsKind(err, infra.KindDuplicateKey):
			u.recordAttempt(ctx, code, userID, referral.AttemptAlreadyReferred, now)
			return nil, errs.Mark(err, ErrAlreadyReferred)
		}
		u.recordAttempt(ctx, code, userID, referral.AttemptInternalError, now)
		return nil, err
	}

	u.recordAttempt(ctx, code, userID, referral.AttemptSuccess, now)
	return ref, nil
}

func (u *referralUseCaseImpl) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*referral.Referral, error) {
	return u.uow.Direct().Referrals().ListByReferrer(ctx, referrerID)
}

// recordAttempt writes through the pool so the audit row survives the
// rollback of whatever transaction rejected the referral.
func (u *referralUseCaseImpl) recordAttempt(ctx context.Context, code string, userID uuid.UUID, outcome referral.AttemptOutcome, now time.Time) {
	attempt := referral.NewAttempt(code, userID, outcome, now)
	if err := u.uow.Direct().Referrals().RecordAttempt(ctx, attempt); err != nil {
		slog.Error("failed to record referral attempt",
			"code", code,
			"user_id", userID.String(),
			"outcome", string(outcome),
			"error", err.Error())
	}
}

// completeReferralForPurchase finishes the payer's pending referral, if
// any, and routes both rewards through the loyalty ledger inside the
// caller's transaction. A payer with no pending referral is the common
// case and returns (false, nil).
func completeReferralForPurchase(ctx context.Context, tx Tx, payerID uuid.UUID, purchaseAmount float64, now time.Time) (bool, error) {
	ref, err := tx.Referrals().FindPendingByReferredUser(ctx, payerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	pair, err := ref.Complete(&purchaseAmount, now)
	if err != nil {
		return false, err
	}

	done, err := tx.Referrals().MarkCompleted(ctx, ref)
	if err != nil {
		return false, err
	}
	if !done {
		// Another settlement completed it first.
		return false, nil
	}

	if pair.ReferrerPoints > 0 {
		if _, err := awardPoints(ctx, tx, ref.ReferrerID(), pair.ReferrerPoints, "referral reward", now); err != nil {
			return false, err
		}
	}
	if pair.ReferredPoints > 0 {
		if _, err := awardPoints(ctx, tx, ref.ReferredUserID(), pair.ReferredPoints, "referral welcome reward", now); err != nil {
			return false, err
		}
	}
	return true, nil
}
