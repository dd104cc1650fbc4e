package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// itemHandler handles HTTP requests for the redeemable item catalogue and
// its stock ledger.
type itemHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// registerItemRoutes registers routes related to redeemable items.
func registerItemRoutes(rg *gin.RouterGroup, is portssvc.InventorySvcFacade) {
	h := &itemHandler{inventoryService: is}

	items := rg.Group("/items")
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		items.GET("/:id", h.getItem)
		items.PUT("/:id", h.updateItem)
		items.DELETE("/:id", h.deactivateItem)
		items.POST("/:id/restock", h.restock)
		items.POST("/:id/remove-stock", h.removeStock)
		items.GET("/:id/events", h.listStockEvents)
	}
}

// createItem godoc
// @Summary Create a redeemable item
// @Tags items
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateItemRequest true "Item details"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /items [post]
func (h *itemHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// listItems godoc
// @Summary List redeemable items
// @Tags items
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated items" default(false)
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.ItemResponse
// @Security BearerAuth
// @Router /items [get]
func (h *itemHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	items, err := h.inventoryService.ListItems(c.Request.Context(), params.IncludeInactive, params.Limit, params.Offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, dto.ToListItemResponse(items))
}

// getItem godoc
// @Summary Get a redeemable item by ID
// @Tags items
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *itemHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	item, err := h.inventoryService.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// updateItem godoc
// @Summary Update item details
// @Description Updates name, description or cost. Stock moves only through stock operations.
// @Tags items
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   item body dto.UpdateItemRequest true "Fields to update"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *itemHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// deactivateItem godoc
// @Summary Deactivate a redeemable item
// @Description Hides the item from redemption while preserving its history
// @Tags items
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id} [delete]
func (h *itemHandler) deactivateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.inventoryService.DeactivateItem(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate item")
		return
	}
	c.Status(http.StatusNoContent)
}

// restock godoc
// @Summary Add stock to an item
// @Tags items
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   adjustment body dto.StockAdjustRequest true "Restock details"
// @Success 200 {object} map[string]int "New stock level"
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id}/restock [post]
func (h *itemHandler) restock(c *gin.Context) {
	h.adjustStock(c, true)
}

// removeStock godoc
// @Summary Remove stock from an item
// @Description Records a manual correction, failing when stock would go negative
// @Tags items
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   adjustment body dto.StockAdjustRequest true "Removal details"
// @Success 200 {object} map[string]int "New stock level"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /items/{id}/remove-stock [post]
func (h *itemHandler) removeStock(c *gin.Context) {
	h.adjustStock(c, false)
}

func (h *itemHandler) adjustStock(c *gin.Context, increase bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adjust := h.inventoryService.DecreaseStock
	if increase {
		adjust = h.inventoryService.IncreaseStock
	}
	newStock, err := adjust(c.Request.Context(), c.Param("id"), req.Quantity, req.Notes, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": newStock})
}

// listStockEvents godoc
// @Summary List stock events for an item
// @Tags items
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   limit query int false "Maximum events" default(50)
// @Success 200 {array} dto.StockEventResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id}/events [get]
func (h *itemHandler) listStockEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.inventoryService.ListStockEvents(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock events")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStockEventResponse(events))
}
