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

type LoyaltyHandler struct {
	loyalty usecase.LoyaltyCommands
}

func NewLoyaltyHandler(loyalty usecase.LoyaltyCommands) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: loyalty}
}

// @Summary Get loyalty account
// @Description Get the current user's loyalty account, creating it on first touch
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.LoyaltyAccountResponse
// @Failure 401 {object} map[string]string
// @Router /loyalty/account [get]
func (h *LoyaltyHandler) GetAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	account, err := h.loyalty.Account(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoyaltyAccount(account))
}

// @Summary Redeem reward
// @Description Spend loyalty points on a reward
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemRewardRequest true "Redeem request"
// @Success 200 {object} resdto.LoyaltyAccountResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /loyalty/redeem [post]
func (h *LoyaltyHandler) RedeemReward(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.RedeemRewardRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	account, err := h.loyalty.Redeem(c.Request.Context(), userID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reward not found",
			})
		case errors.Is(err, usecase.ErrInsufficientPoints):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient points",
			})
		case errors.Is(err, usecase.ErrRewardOutOfStock):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reward is out of stock",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoyaltyAccount(account))
}

// @Summary Award points
// @Description Manually award points to a customer (admin only)
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AwardPointsRequest true "Award request"
// @Success 200 {object} resdto.LoyaltyAccountResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /loyalty/award [post]
func (h *LoyaltyHandler) AwardPoints(c *gin.Context) {
	var req reqdto.AwardPointsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	account, err := h.loyalty.Award(c.Request.Context(), req.CustomerID, req.Points, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoyaltyAccount(account))
}

// @Summary Expire points
// @Description Sweep a customer's points older than the retention window (admin only)
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ExpirePointsRequest true "Expire request"
// @Success 200 {object} resdto.ExpirePointsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /loyalty/expire [post]
func (h *LoyaltyHandler) ExpirePoints(c *gin.Context) {
	var req reqdto.ExpirePointsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.loyalty.ExpirePoints(c.Request.Context(), req.CustomerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromExpireResult(result))
}
