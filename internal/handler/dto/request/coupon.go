package request

type ValidateCouponRequest struct {
	Code       string  `json:"code" binding:"required"`
	ItemsPrice float64 `json:"items_price" binding:"required,gt=0"`
}
