package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	coupons usecase.CouponQueries
}

func NewCouponHandler(coupons usecase.CouponQueries) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// @Summary Validate coupon
// @Description Preview the discount a coupon would give a cart
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ValidateCouponRequest true "Coupon validation request"
// @Success 200 {object} resdto.CouponValidationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req reqdto.ValidateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	validation, err := h.coupons.Validate(c.Request.Context(), req.Code, req.ItemsPrice)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
		case errors.Is(err, usecase.ErrCouponExpired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Coupon is outside its validity window",
			})
		case errors.Is(err, usecase.ErrCouponExhausted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Coupon usage limit reached",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponValidation(validation))
}
