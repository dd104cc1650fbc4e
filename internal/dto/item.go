package dto

import (
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateItemRequest defines the data needed to create a redeemable item.
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	CostPoints   decimal.Decimal `json:"costPoints" binding:"required,dpositive"`
	InitialStock int             `json:"initialStock" binding:"gte=0"`
}

// UpdateItemRequest defines the fields allowed to change on an item.
// Pointers distinguish omitted fields from zero values.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CostPoints  *decimal.Decimal `json:"costPoints"`
}

// ItemResponse defines the data returned for a redeemable item.
type ItemResponse struct {
	ItemID        string          `json:"itemID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CostPoints    decimal.Decimal `json:"costPoints"`
	Stock         int             `json:"stock"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToItemResponse converts a domain.RedeemableItem to its response DTO
func ToItemResponse(item *domain.RedeemableItem) ItemResponse {
	return ItemResponse{
		ItemID:        item.ItemID,
		Name:          item.Name,
		Description:   item.Description,
		CostPoints:    item.CostPoints,
		Stock:         item.Stock,
		IsActive:      item.IsActive,
		CreatedAt:     item.CreatedAt,
		LastUpdatedAt: item.LastUpdatedAt,
	}
}

// ToListItemResponse converts a slice of items to response DTOs
func ToListItemResponse(items []domain.RedeemableItem) []ItemResponse {
	res := make([]ItemResponse, len(items))
	for i := range items {
		res[i] = ToItemResponse(&items[i])
	}
	return res
}

// ListItemsParams defines query parameters for listing items.
type ListItemsParams struct {
	IncludeInactive bool `form:"includeInactive,default=false"`
	Limit           int  `form:"limit,default=20"`
	Offset          int  `form:"offset,default=0"`
}

// StockAdjustRequest defines a manual stock increase or decrease.
type StockAdjustRequest struct {
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Notes    string `json:"notes"`
}

// StockEventResponse defines the data returned for one stock event.
type StockEventResponse struct {
	EventID       string             `json:"eventID"`
	ItemID        string             `json:"itemID"`
	Action        domain.StockAction `json:"action"`
	Delta         int                `json:"delta"`
	PreviousStock int                `json:"previousStock"`
	NewStock      int                `json:"newStock"`
	Notes         string             `json:"notes"`
	RedemptionID  *string            `json:"redemptionID,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
}

// ToStockEventResponse converts a domain.StockEvent to its response DTO
func ToStockEventResponse(e domain.StockEvent) StockEventResponse {
	return StockEventResponse{
		EventID:       e.EventID,
		ItemID:        e.ItemID,
		Action:        e.Action,
		Delta:         e.Delta,
		PreviousStock: e.PreviousStock,
		NewStock:      e.NewStock,
		Notes:         e.Notes,
		RedemptionID:  e.RedemptionID,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

// ToListStockEventResponse converts a slice of stock events to response DTOs
func ToListStockEventResponse(events []domain.StockEvent) []StockEventResponse {
	res := make([]StockEventResponse, len(events))
	for i, e := range events {
		res[i] = ToStockEventResponse(e)
	}
	return res
}
