package request

import "github.com/google/uuid"

type RedeemRewardRequest struct {
	RewardID uuid.UUID `json:"reward_id" binding:"required"`
}

type AwardPointsRequest struct {
	CustomerID  uuid.UUID `json:"customer_id" binding:"required"`
	Points      int       `json:"points" binding:"required,gt=0"`
	Description string    `json:"description" binding:"required"`
}

type ExpirePointsRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}
