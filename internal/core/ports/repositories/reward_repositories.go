package repositories

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ItemReader defines read operations for redeemable items
type ItemReader interface {
	// FindItemByID retrieves an item by its unique identifier.
	FindItemByID(ctx context.Context, itemID string) (*domain.RedeemableItem, error)

	// ListItems retrieves a paginated list of items, optionally including
	// deactivated ones.
	ListItems(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.RedeemableItem, error)
}

// ItemWriter defines write operations for redeemable items. Stock is not
// writable here; it moves only through StockMutator.
type ItemWriter interface {
	// SaveItem persists a new item together with its initial restock event,
	// when one is given, in a single transaction. A failure leaves neither
	// the item nor the event behind, so the caller can retry the whole
	// creation without duplicating the item.
	SaveItem(ctx context.Context, item domain.RedeemableItem, initial *domain.StockEvent) error

	// UpdateItem updates name, description and cost of an existing item.
	UpdateItem(ctx context.Context, item domain.RedeemableItem) error

	// DeactivateItem marks an item inactive, preserving its history.
	DeactivateItem(ctx context.Context, itemID string, userID string, now time.Time) error
}

// StockMutator is the only path that changes item stock.
type StockMutator interface {
	// AdjustStock atomically applies a signed delta to an item's stock and
	// records the matching stock event: lock the item row, verify the result
	// stays non-negative, update, insert the event, commit. Returns the new
	// stock level. Lock scope: item row.
	AdjustStock(ctx context.Context, event domain.StockEvent) (int, error)

	// FindItemByIDForUpdate selects an item and locks its row for update.
	FindItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID string) (*domain.RedeemableItem, error)

	// UpdateItemStockInTx sets an item's stock inside a caller-owned
	// transaction that already holds the item row lock.
	UpdateItemStockInTx(ctx context.Context, tx pgx.Tx, itemID string, newStock int, userID string, now time.Time) error

	// InsertStockEventInTx appends a stock event inside a caller-owned transaction.
	InsertStockEventInTx(ctx context.Context, tx pgx.Tx, event domain.StockEvent) error
}

// StockEventReader defines read-only queries over stock history.
type StockEventReader interface {
	// ListStockEventsByItem retrieves an item's stock history, newest first.
	ListStockEventsByItem(ctx context.Context, itemID string, limit int) ([]domain.StockEvent, error)
}

// RewardRepositoryFacade combines all item-related repository interfaces
type RewardRepositoryFacade interface {
	ItemReader
	ItemWriter
	StockMutator
	StockEventReader
}

// RewardRepositoryWithTx extends RewardRepositoryFacade with transaction capabilities
type RewardRepositoryWithTx interface {
	RewardRepositoryFacade
	TransactionManager
}
