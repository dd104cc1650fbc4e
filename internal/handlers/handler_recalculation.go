package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// recalculationHandler exposes the household-total repair job for operators.
type recalculationHandler struct {
	recalcService portssvc.RecalculationSvcFacade
}

// registerAdminRoutes registers operator-facing routes.
func registerAdminRoutes(rg *gin.RouterGroup, rs portssvc.RecalculationSvcFacade) {
	h := &recalculationHandler{recalcService: rs}

	admin := rg.Group("/admin")
	{
		admin.POST("/recalculate", h.recalculateAll)
		admin.POST("/households/:id/recalculate", h.recalculateHousehold)
	}
}

// recalculateAll godoc
// @Summary Recalculate every active household total
// @Description Recomputes totals from member balances and corrects drift
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.RecalculationResultResponse
// @Security BearerAuth
// @Router /admin/recalculate [post]
func (h *recalculationHandler) recalculateAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.recalcService.RecalculateAll(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Recalculation run failed")
		return
	}
	c.JSON(http.StatusOK, dto.RecalculationResultResponse{
		HouseholdsChecked:   result.HouseholdsChecked,
		HouseholdsCorrected: result.HouseholdsCorrected,
		Failures:            result.Failures,
	})
}

// recalculateHousehold godoc
// @Summary Recalculate one household total
// @Tags admin
// @Produce  json
// @Param   id path string true "Household ID"
// @Success 200 {object} map[string]bool "Whether a correction was made"
// @Failure 404 {object} map[string]string "Household not found"
// @Security BearerAuth
// @Router /admin/households/{id}/recalculate [post]
func (h *recalculationHandler) recalculateHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	corrected, err := h.recalcService.RecalculateHousehold(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Recalculation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"corrected": corrected})
}
