package services

import (
	"context"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
)

// ItemSvc defines catalogue management for redeemable items.
type ItemSvc interface {
	// CreateItem persists a new redeemable item, recording initial stock as a
	// restock event when non-zero.
	CreateItem(ctx context.Context, req dto.CreateItemRequest, userID string) (*domain.RedeemableItem, error)

	// GetItemByID retrieves an item by its unique identifier.
	GetItemByID(ctx context.Context, itemID string) (*domain.RedeemableItem, error)

	// ListItems retrieves a paginated list of items.
	ListItems(ctx context.Context, includeInactive bool, limit, offset int) ([]domain.RedeemableItem, error)

	// UpdateItem updates item details (never stock).
	UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, userID string) (*domain.RedeemableItem, error)

	// DeactivateItem hides an item from redemption while preserving history.
	DeactivateItem(ctx context.Context, itemID string, userID string) error
}

// StockSvc defines the inventory ledger operations.
type StockSvc interface {
	// IncreaseStock adds stock and records the event. Returns the new level.
	IncreaseStock(ctx context.Context, itemID string, quantity int, notes string, userID string) (int, error)

	// DecreaseStock removes stock, failing on insufficient stock, and records
	// the event. Returns the new level.
	DecreaseStock(ctx context.Context, itemID string, quantity int, notes string, userID string) (int, error)

	// ListStockEvents retrieves an item's stock history, newest first.
	ListStockEvents(ctx context.Context, itemID string, limit int) ([]domain.StockEvent, error)
}

// InventorySvcFacade combines item and stock service interfaces
type InventorySvcFacade interface {
	ItemSvc
	StockSvc
}
