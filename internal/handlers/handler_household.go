package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// householdHandler handles HTTP requests related to household aggregates.
type householdHandler struct {
	accountService portssvc.AccountSvcFacade
}

// registerHouseholdRoutes registers routes related to households.
func registerHouseholdRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade) {
	h := &householdHandler{accountService: as}

	households := rg.Group("/households")
	{
		households.GET("/:id", h.getHousehold)
		households.GET("/:id/members", h.listMembers)
		households.GET("/:id/adjustments", h.listAdjustments)
	}
}

// getHousehold godoc
// @Summary Get a household aggregate
// @Tags households
// @Produce  json
// @Param   id path string true "Household ID"
// @Success 200 {object} dto.HouseholdResponse
// @Failure 404 {object} map[string]string "Household not found"
// @Security BearerAuth
// @Router /households/{id} [get]
func (h *householdHandler) getHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	household, err := h.accountService.GetHousehold(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve household")
		return
	}
	c.JSON(http.StatusOK, dto.ToHouseholdResponse(household))
}

// listMembers godoc
// @Summary List member accounts of a household
// @Tags households
// @Produce  json
// @Param   id path string true "Household ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} map[string]string "Household not found"
// @Security BearerAuth
// @Router /households/{id}/members [get]
func (h *householdHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	members, err := h.accountService.ListHouseholdMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list household members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(members))
}

// listAdjustments godoc
// @Summary List drift corrections recorded for a household
// @Tags households
// @Produce  json
// @Param   id path string true "Household ID"
// @Param   limit query int false "Page size" default(20)
// @Success 200 {array} dto.AdjustmentResponse
// @Failure 404 {object} map[string]string "Household not found"
// @Security BearerAuth
// @Router /households/{id}/adjustments [get]
func (h *householdHandler) listAdjustments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	adjustments, err := h.accountService.ListHouseholdAdjustments(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list household adjustments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAdjustmentResponse(adjustments))
}
