package response

import (
	"time"

	"storefront/internal/domain/referral"

	"github.com/google/uuid"
)

type ReferralResponse struct {
	ID             uuid.UUID  `json:"id"`
	ReferrerID     uuid.UUID  `json:"referrerId"`
	ReferredUserID uuid.UUID  `json:"referredUserId"`
	Code           string     `json:"code"`
	Status         string     `json:"status"`
	RewardTier     string     `json:"rewardTier"`
	PurchaseAmount *float64   `json:"purchaseAmount,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func FromReferral(r *referral.Referral) *ReferralResponse {
	return &ReferralResponse{
		ID:             r.ID(),
		ReferrerID:     r.ReferrerID(),
		ReferredUserID: r.ReferredUserID(),
		Code:           r.Code(),
		Status:         string(r.Status()),
		RewardTier:     r.RewardTier().Name,
		PurchaseAmount: r.PurchaseAmount(),
		CompletedAt:    r.CompletedAt(),
		CreatedAt:      r.CreatedAt(),
	}
}

func FromReferrals(refs []*referral.Referral) []*ReferralResponse {
	out := make([]*ReferralResponse, len(refs))
	for i, r := range refs {
		out[i] = FromReferral(r)
	}
	return out
}
