package response

import (
	"time"

	"storefront/internal/domain/loyalty"

	"github.com/google/uuid"
)

type PointsEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	Delta       int       `json:"delta"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TierEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Tier      string    `json:"tier"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoyaltyAccountResponse struct {
	ID            uuid.UUID             `json:"id"`
	CustomerID    uuid.UUID             `json:"customerId"`
	Balance       int                   `json:"balance"`
	Tier          string                `json:"tier"`
	PointsHistory []PointsEntryResponse `json:"pointsHistory"`
	TierHistory   []TierEntryResponse   `json:"tierHistory"`
}

type ExpirePointsResponse struct {
	PointsExpired int    `json:"pointsExpired"`
	NewBalance    int    `json:"newBalance"`
	NewTier       string `json:"newTier"`
}

func FromLoyaltyAccount(a *loyalty.Account) *LoyaltyAccountResponse {
	points := make([]PointsEntryResponse, len(a.PointsHistory()))
	for i, e := range a.PointsHistory() {
		points[i] = PointsEntryResponse{
			ID:          e.ID,
			Delta:       e.Delta,
			Kind:        string(e.Kind),
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}
	tiers := make([]TierEntryResponse, len(a.TierHistory()))
	for i, e := range a.TierHistory() {
		tiers[i] = TierEntryResponse{
			ID:        e.ID,
			Tier:      string(e.Tier),
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		}
	}
	return &LoyaltyAccountResponse{
		ID:            a.ID(),
		CustomerID:    a.CustomerID(),
		Balance:       a.Balance(),
		Tier:          string(a.Tier()),
		PointsHistory: points,
		TierHistory:   tiers,
	}
}

func FromExpireResult(r loyalty.ExpireResult) *ExpirePointsResponse {
	return &ExpirePointsResponse{
		PointsExpired: r.PointsExpired,
		NewBalance:    r.NewBalance,
		NewTier:       string(r.NewTier),
	}
}
