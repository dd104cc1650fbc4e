package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// redemptionHandler handles HTTP requests for the redemption workflow.
type redemptionHandler struct {
	redemptionService portssvc.RedemptionSvcFacade
}

// registerRedemptionRoutes registers routes related to redemptions.
func registerRedemptionRoutes(rg *gin.RouterGroup, rs portssvc.RedemptionSvcFacade) {
	h := &redemptionHandler{redemptionService: rs}

	redemptions := rg.Group("/redemptions")
	{
		redemptions.POST("", h.redeem)
		redemptions.GET("/:id", h.getRedemption)
		redemptions.POST("/:id/claim", h.claim)
	}
}

// redeem godoc
// @Summary Redeem points for a stocked item
// @Description Debits the balance, decrements stock and records the redemption as one atomic unit
// @Tags redemptions
// @Accept  json
// @Produce  json
// @Param   redemption body dto.RedeemRequest true "Redemption details"
// @Success 201 {object} dto.RedemptionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Account or item not found"
// @Failure 422 {object} map[string]string "Insufficient balance or stock"
// @Security BearerAuth
// @Router /redemptions [post]
func (h *redemptionHandler) redeem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Redeem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	redemption, err := h.redemptionService.Redeem(c.Request.Context(), req.AccountID, req.ItemID, req.Quantity, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to redeem")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRedemptionResponse(redemption))
}

// getRedemption godoc
// @Summary Get a redemption by ID
// @Tags redemptions
// @Produce  json
// @Param   id path string true "Redemption ID"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 404 {object} map[string]string "Redemption not found"
// @Security BearerAuth
// @Router /redemptions/{id} [get]
func (h *redemptionHandler) getRedemption(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	redemption, err := h.redemptionService.GetRedemptionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve redemption")
		return
	}
	c.JSON(http.StatusOK, dto.ToRedemptionResponse(redemption))
}

// claim godoc
// @Summary Mark a redemption as picked up
// @Description Idempotent: claiming an already claimed redemption returns it unchanged
// @Tags redemptions
// @Produce  json
// @Param   id path string true "Redemption ID"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 404 {object} map[string]string "Redemption not found"
// @Security BearerAuth
// @Router /redemptions/{id}/claim [post]
func (h *redemptionHandler) claim(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	redemption, err := h.redemptionService.Claim(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to claim redemption")
		return
	}
	c.JSON(http.StatusOK, dto.ToRedemptionResponse(redemption))
}
