package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRewardRepository struct {
	BaseRepository
}

// newPgxRewardRepository creates a new repository for redeemable items and
// their stock history.
func newPgxRewardRepository(pool *pgxpool.Pool) *PgxRewardRepository {
	return &PgxRewardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRewardRepository implements portsrepo.RewardRepositoryFacade
var _ portsrepo.RewardRepositoryFacade = (*PgxRewardRepository)(nil)

const itemColumns = `item_id, name, description, cost_points, stock, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanItem(row pgx.Row) (*domain.RedeemableItem, error) {
	var item domain.RedeemableItem
	err := row.Scan(
		&item.ItemID,
		&item.Name,
		&item.Description,
		&item.CostPoints,
		&item.Stock,
		&item.IsActive,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem inserts a new redeemable item and, when given, its initial restock
// event in one transaction so a failure cannot leave an item without its
// opening stock history.
func (r *PgxRewardRepository) SaveItem(ctx context.Context, item domain.RedeemableItem, initial *domain.StockEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO redeemable_items (item_id, name, description, cost_points, stock, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		item.ItemID,
		item.Name,
		item.Description,
		item.CostPoints,
		item.Stock,
		item.IsActive,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert item "+item.ItemID)
	}

	if initial != nil {
		if err := r.InsertStockEventInTx(ctx, tx, *initial); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// FindItemByID retrieves an item by its ID.
func (r *PgxRewardRepository) FindItemByID(ctx context.Context, itemID string) (*domain.RedeemableItem, error) {
	query := `SELECT ` + itemColumns + ` FROM redeemable_items WHERE item_id = $1;`
	item, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find item by ID "+itemID)
	}
	return item, nil
}

// ListItems retrieves a paginated list of items.
func (r *PgxRewardRepository) ListItems(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.RedeemableItem, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + itemColumns + ` FROM redeemable_items`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapPgError(err, "failed to query items")
	}
	defer rows.Close()

	items := []domain.RedeemableItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan item row")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating item rows")
	}
	return items, nil
}

// UpdateItem updates name, description and cost of an existing item.
// Stock is deliberately excluded; it moves only through AdjustStock.
func (r *PgxRewardRepository) UpdateItem(ctx context.Context, item domain.RedeemableItem) error {
	query := `
		UPDATE redeemable_items
		SET name = $2, description = $3, cost_points = $4, last_updated_at = $5, last_updated_by = $6
		WHERE item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.Name,
		item.Description,
		item.CostPoints,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update item "+item.ItemID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateItem marks an item as inactive.
func (r *PgxRewardRepository) DeactivateItem(ctx context.Context, itemID string, userID string, now time.Time) error {
	query := `
		UPDATE redeemable_items
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE item_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, itemID, now, userID)
	if err != nil {
		return mapPgError(err, "failed to deactivate item "+itemID)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindItemByID(ctx, itemID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Item exists but was already inactive.
		return fmt.Errorf("%w: item %s is already inactive", apperrors.ErrValidation, itemID)
	}
	return nil
}

// AdjustStock applies a signed stock delta and records the matching event in
// one transaction. The item row lock serializes concurrent adjustments so two
// decreases of the last unit cannot both succeed.
func (r *PgxRewardRepository) AdjustStock(ctx context.Context, event domain.StockEvent) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	item, err := r.FindItemByIDForUpdate(ctx, tx, event.ItemID)
	if err != nil {
		return 0, err
	}

	newStock := item.Stock + event.Delta
	if newStock < 0 {
		return 0, fmt.Errorf("%w: stock %d, requested %d",
			apperrors.ErrInsufficientStock, item.Stock, -event.Delta)
	}

	event.PreviousStock = item.Stock
	event.NewStock = newStock

	if err := r.UpdateItemStockInTx(ctx, tx, event.ItemID, newStock, event.CreatedBy, event.CreatedAt); err != nil {
		return 0, err
	}
	if err := r.InsertStockEventInTx(ctx, tx, event); err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return newStock, nil
}

// FindItemByIDForUpdate retrieves an item and locks its row.
// Must be called within a transaction.
func (r *PgxRewardRepository) FindItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID string) (*domain.RedeemableItem, error) {
	query := `SELECT ` + itemColumns + ` FROM redeemable_items WHERE item_id = $1 FOR UPDATE;`
	item, err := scanItem(tx.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to lock item "+itemID)
	}
	return item, nil
}

// UpdateItemStockInTx sets an item's stock inside a caller-owned transaction
// that already holds the item row lock.
func (r *PgxRewardRepository) UpdateItemStockInTx(ctx context.Context, tx pgx.Tx, itemID string, newStock int, userID string, now time.Time) error {
	query := `
		UPDATE redeemable_items
		SET stock = $2, last_updated_at = $3, last_updated_by = $4
		WHERE item_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, itemID, newStock, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update stock for item "+itemID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %s not found during stock update", apperrors.ErrNotFound, itemID)
	}
	return nil
}

// InsertStockEventInTx appends a stock event inside a caller-owned transaction.
func (r *PgxRewardRepository) InsertStockEventInTx(ctx context.Context, tx pgx.Tx, event domain.StockEvent) error {
	query := `
		INSERT INTO stock_events (event_id, item_id, action, delta, previous_stock, new_stock, notes, redemption_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	var redemptionID sql.NullString
	if event.RedemptionID != nil {
		redemptionID = sql.NullString{String: *event.RedemptionID, Valid: true}
	}
	_, err := tx.Exec(ctx, query,
		event.EventID,
		event.ItemID,
		event.Action,
		event.Delta,
		event.PreviousStock,
		event.NewStock,
		event.Notes,
		redemptionID,
		event.CreatedAt,
		event.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert stock event "+event.EventID)
	}
	return nil
}

// ListStockEventsByItem retrieves an item's stock history, newest first.
func (r *PgxRewardRepository) ListStockEventsByItem(ctx context.Context, itemID string, limit int) ([]domain.StockEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT event_id, item_id, action, delta, previous_stock, new_stock, notes, redemption_id, created_at, created_by
		FROM stock_events
		WHERE item_id = $1
		ORDER BY created_at DESC, event_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, mapPgError(err, "failed to query stock events for item "+itemID)
	}
	defer rows.Close()

	events := []domain.StockEvent{}
	for rows.Next() {
		var e domain.StockEvent
		var redemptionID sql.NullString
		err := rows.Scan(
			&e.EventID,
			&e.ItemID,
			&e.Action,
			&e.Delta,
			&e.PreviousStock,
			&e.NewStock,
			&e.Notes,
			&redemptionID,
			&e.CreatedAt,
			&e.CreatedBy,
		)
		if err != nil {
			return nil, mapPgError(err, "failed to scan stock event row for item "+itemID)
		}
		if redemptionID.Valid {
			e.RedemptionID = &redemptionID.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating stock event rows for item "+itemID)
	}
	return events, nil
}
