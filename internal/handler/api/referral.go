package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referrals usecase.ReferralCommands
}

func NewReferralHandler(referrals usecase.ReferralCommands) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// @Summary Use referral code
// @Description Link the current user to the owner of a referral code
// @Tags referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReferralRequest true "Referral request"
// @Success 201 {object} resdto.ReferralResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /referrals [post]
func (h *ReferralHandler) CreateReferral(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateReferralRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	ref, err := h.referrals.CreateReferral(c.Request.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReferralCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Referral code not found",
			})
		case errors.Is(err, usecase.ErrSelfReferral):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot refer yourself",
			})
		case errors.Is(err, usecase.ErrAlreadyReferred):
			c.JSON(http.StatusConflict, gin.H{
				"error": "User already referred",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReferral(ref))
}

// @Summary List referrals
// @Description List referrals where the current user is the referrer
// @Tags referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReferralResponse
// @Failure 401 {object} map[string]string
// @Router /referrals [get]
func (h *ReferralHandler) ListReferrals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	refs, err := h.referrals.ListByReferrer(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReferrals(refs))
}
