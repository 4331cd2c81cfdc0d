package request

type CreateReferralRequest struct {
	Code string `json:"code" binding:"required"`
}
