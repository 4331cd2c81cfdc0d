package response

import (
	"storefront/internal/usecase"
)

type CouponValidationResponse struct {
	Code       string  `json:"code"`
	PercentOff float64 `json:"percentOff"`
	Discount   float64 `json:"discount"`
}

func FromCouponValidation(v *usecase.CouponValidation) *CouponValidationResponse {
	return &CouponValidationResponse{
		Code:       v.Coupon.Code().String(),
		PercentOff: v.Coupon.PercentOff(),
		Discount:   v.Discount,
	}
}
