package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// ledgerHandler handles cross-account queries over the audit log.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers routes related to the audit ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ls}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntriesByTimeRange)
		ledger.GET("/references/:referenceID", h.listEntriesByReference)
	}
}

// listEntriesByTimeRange godoc
// @Summary List ledger entries created in a time window
// @Tags ledger
// @Produce  json
// @Param   from query string true "Window start (RFC3339)"
// @Param   to query string true "Window end (RFC3339, exclusive)"
// @Param   limit query int false "Maximum entries" default(100)
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid time window"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntriesByTimeRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.TimeRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if !params.To.After(params.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must be after 'from'"})
		return
	}

	entries, err := h.ledgerService.ListEntriesByTimeRange(c.Request.Context(), params.From, params.To, params.Limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerEntryResponse(entries))
}

// listEntriesByReference godoc
// @Summary List every ledger entry tied to one source event
// @Tags ledger
// @Produce  json
// @Param   referenceID path string true "Reference ID"
// @Success 200 {array} dto.LedgerEntryResponse
// @Security BearerAuth
// @Router /ledger/references/{referenceID} [get]
func (h *ledgerHandler) listEntriesByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.ledgerService.ListEntriesByReference(c.Request.Context(), c.Param("referenceID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerEntryResponse(entries))
}
