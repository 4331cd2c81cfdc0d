package referral

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyReferred    = errors.New("user already has a referral")
	ErrSelfReferral       = errors.New("users cannot refer themselves")
	ErrReferralNotPending = errors.New("referral is not pending")
	ErrReferralNotFound   = errors.New("referral not found")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Referral is the one row a referred user may ever have
// (first-referral-wins). The code is always the referrer's canonical
// code, regardless of what the caller submitted.
type Referral struct {
	id             uuid.UUID
	referrerID     uuid.UUID
	referredUserID uuid.UUID
	code           string
	status         Status
	rewardTier     RewardTier
	purchaseAmount *float64
	completedAt    *time.Time
	createdAt      time.Time
}

func NewReferral(
	referrerID, referredUserID uuid.UUID,
	canonicalCode string,
	rewardTier RewardTier,
	now time.Time,
) (*Referral, error) {
	if referrerID == referredUserID {
		return nil, ErrSelfReferral
	}
	return &Referral{
		id:             uuid.New(),
		referrerID:     referrerID,
		referredUserID: referredUserID,
		code:           canonicalCode,
		status:         StatusPending,
		rewardTier:     rewardTier,
		createdAt:      now,
	}, nil
}

func ReconstructReferral(
	id, referrerID, referredUserID uuid.UUID,
	code string,
	status Status,
	rewardTier RewardTier,
	purchaseAmount *float64,
	completedAt *time.Time,
	createdAt time.Time,
) *Referral {
	return &Referral{
		id:             id,
		referrerID:     referrerID,
		referredUserID: referredUserID,
		code:           code,
		status:         status,
		rewardTier:     rewardTier,
		purchaseAmount: purchaseAmount,
		completedAt:    completedAt,
		createdAt:      createdAt,
	}
}

// Complete transitions pending→completed and computes both rewards.
// Completing a completed or expired referral is a typed error, never
// silently re-run.
func (r *Referral) Complete(purchaseAmount *float64, now time.Time) (RewardPair, error) {
	if r.status != StatusPending {
		return RewardPair{}, ErrReferralNotPending
	}
	r.status = StatusCompleted
	r.purchaseAmount = purchaseAmount
	r.completedAt = &now

	referrer := r.rewardTier.ReferrerReward(purchaseAmount)
	return RewardPair{
		ReferrerPoints: referrer,
		ReferredPoints: referrer / 2,
	}, nil
}

// RewardPair is what a completed referral pays out, in loyalty points.
// The referred user always receives half the referrer's reward.
type RewardPair struct {
	ReferrerPoints int
	ReferredPoints int
}

func (r *Referral) ID() uuid.UUID             { return r.id }
func (r *Referral) ReferrerID() uuid.UUID     { return r.referrerID }
func (r *Referral) ReferredUserID() uuid.UUID { return r.referredUserID }
func (r *Referral) Code() string              { return r.code }
func (r *Referral) Status() Status            { return r.status }
func (r *Referral) RewardTier() RewardTier    { return r.rewardTier }
func (r *Referral) PurchaseAmount() *float64  { return r.purchaseAmount }
func (r *Referral) CompletedAt() *time.Time   { return r.completedAt }
func (r *Referral) CreatedAt() time.Time      { return r.createdAt }
