package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// InventoryService manages the redeemable item catalogue and its stock
// ledger. Stock only moves through recorded events.
type InventoryService struct {
	rewardRepo portsrepo.RewardRepositoryFacade
}

func NewInventoryService(rewardRepo portsrepo.RewardRepositoryFacade) *InventoryService {
	return &InventoryService{rewardRepo: rewardRepo}
}

var _ portssvc.InventorySvcFacade = (*InventoryService)(nil)

// CreateItem persists a new redeemable item. Initial stock enters through a
// restock event so the event history folds to the stock level from day one.
func (s *InventoryService) CreateItem(ctx context.Context, req dto.CreateItemRequest, userID string) (*domain.RedeemableItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.CostPoints.IsPositive() {
		return nil, fmt.Errorf("%w: cost must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	item := domain.RedeemableItem{
		ItemID:      uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CostPoints:  req.CostPoints,
		Stock:       req.InitialStock,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Item and its opening restock event land in one transaction, so a
	// failed creation can be retried without duplicating the item.
	var initial *domain.StockEvent
	if req.InitialStock > 0 {
		initial = &domain.StockEvent{
			EventID:       uuid.NewString(),
			ItemID:        item.ItemID,
			Action:        domain.StockRestock,
			Delta:         req.InitialStock,
			PreviousStock: 0,
			NewStock:      req.InitialStock,
			Notes:         "initial stock",
			CreatedAt:     now,
			CreatedBy:     userID,
		}
	}
	if err := s.rewardRepo.SaveItem(ctx, item, initial); err != nil {
		logger.Error("Failed to save item", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Item created", slog.String("item_id", item.ItemID), slog.String("name", item.Name))
	return &item, nil
}

// GetItemByID retrieves an item by its unique identifier.
func (s *InventoryService) GetItemByID(ctx context.Context, itemID string) (*domain.RedeemableItem, error) {
	return s.rewardRepo.FindItemByID(ctx, itemID)
}

// ListItems retrieves a paginated list of items.
func (s *InventoryService) ListItems(ctx context.Context, includeInactive bool, limit, offset int) ([]domain.RedeemableItem, error) {
	return s.rewardRepo.ListItems(ctx, includeInactive, limit, offset)
}

// UpdateItem updates item details. Stock is untouched: changing it without an
// event would break the stock history.
func (s *InventoryService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, userID string) (*domain.RedeemableItem, error) {
	item, err := s.rewardRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.CostPoints != nil {
		if !req.CostPoints.IsPositive() {
			return nil, fmt.Errorf("%w: cost must be positive", apperrors.ErrValidation)
		}
		item.CostPoints = *req.CostPoints
	}
	item.LastUpdatedAt = time.Now()
	item.LastUpdatedBy = userID

	if err := s.rewardRepo.UpdateItem(ctx, *item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem hides an item from redemption while preserving history.
func (s *InventoryService) DeactivateItem(ctx context.Context, itemID string, userID string) error {
	return s.rewardRepo.DeactivateItem(ctx, itemID, userID, time.Now())
}

// IncreaseStock adds stock and records the event. Returns the new level.
func (s *InventoryService) IncreaseStock(ctx context.Context, itemID string, quantity int, notes string, userID string) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	return s.adjustStock(ctx, itemID, domain.StockRestock, quantity, notes, userID)
}

// DecreaseStock removes stock, failing on insufficient stock. Returns the new
// level.
func (s *InventoryService) DecreaseStock(ctx context.Context, itemID string, quantity int, notes string, userID string) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	return s.adjustStock(ctx, itemID, domain.StockCorrection, -quantity, notes, userID)
}

func (s *InventoryService) adjustStock(ctx context.Context, itemID string, action domain.StockAction, delta int, notes string, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	newStock, err := s.rewardRepo.AdjustStock(ctx, domain.StockEvent{
		EventID:   uuid.NewString(),
		ItemID:    itemID,
		Action:    action,
		Delta:     delta,
		Notes:     notes,
		CreatedAt: time.Now(),
		CreatedBy: userID,
	})
	if err != nil {
		logger.Warn("Stock adjustment rejected",
			slog.String("item_id", itemID),
			slog.Int("delta", delta),
			slog.String("error", err.Error()))
		return 0, err
	}

	logger.Info("Stock adjusted",
		slog.String("item_id", itemID),
		slog.String("action", string(action)),
		slog.Int("delta", delta),
		slog.Int("new_stock", newStock))
	return newStock, nil
}

// ListStockEvents retrieves an item's stock history, newest first.
func (s *InventoryService) ListStockEvents(ctx context.Context, itemID string, limit int) ([]domain.StockEvent, error) {
	if _, err := s.rewardRepo.FindItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.rewardRepo.ListStockEventsByItem(ctx, itemID, limit)
}
