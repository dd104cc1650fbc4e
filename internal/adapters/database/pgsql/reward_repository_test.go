package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newItemForSave() domain.RedeemableItem {
	now := time.Now()
	return domain.RedeemableItem{
		ItemID:     "item-1",
		Name:       "Compost Bin",
		CostPoints: decimal.NewFromInt(120),
		Stock:      5,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "staff-1",
			LastUpdatedAt: now,
			LastUpdatedBy: "staff-1",
		},
	}
}

func initialRestockEvent(item domain.RedeemableItem) *domain.StockEvent {
	return &domain.StockEvent{
		EventID:       "evt-1",
		ItemID:        item.ItemID,
		Action:        domain.StockRestock,
		Delta:         item.Stock,
		PreviousStock: 0,
		NewStock:      item.Stock,
		Notes:         "initial stock",
		CreatedAt:     item.CreatedAt,
		CreatedBy:     item.CreatedBy,
	}
}

// Item row and opening restock event must land in the same transaction, so a
// retried creation never finds a half-created item.
func TestSaveItem_WithInitialEvent_SingleTransaction(t *testing.T) {
	pool := &fakePool{}
	repo := &PgxRewardRepository{BaseRepository: BaseRepository{Pool: pool}}
	item := newItemForSave()

	err := repo.SaveItem(context.Background(), item, initialRestockEvent(item))

	require.NoError(t, err)
	require.Len(t, pool.txs, 1)
	tx := pool.txs[0]
	require.Equal(t, 1, tx.commits)
	require.Len(t, tx.execSQL, 2)
	require.Contains(t, tx.execSQL[0], "INSERT INTO redeemable_items")
	require.Contains(t, tx.execSQL[1], "INSERT INTO stock_events")
}

func TestSaveItem_NoInitialEvent_SkipsStockHistory(t *testing.T) {
	pool := &fakePool{}
	repo := &PgxRewardRepository{BaseRepository: BaseRepository{Pool: pool}}
	item := newItemForSave()
	item.Stock = 0

	err := repo.SaveItem(context.Background(), item, nil)

	require.NoError(t, err)
	require.Len(t, pool.txs, 1)
	tx := pool.txs[0]
	require.Equal(t, 1, tx.commits)
	require.Len(t, tx.execSQL, 1)
	require.Contains(t, tx.execSQL[0], "INSERT INTO redeemable_items")
}

func TestSaveItem_EventFailure_RollsBackItem(t *testing.T) {
	pool := &fakePool{
		txExecErr: apperrors.ErrStorageUnavailable,
		txErrOn:   "stock_events",
	}
	repo := &PgxRewardRepository{BaseRepository: BaseRepository{Pool: pool}}
	item := newItemForSave()

	err := repo.SaveItem(context.Background(), item, initialRestockEvent(item))

	require.Error(t, err)
	require.Len(t, pool.txs, 1)
	tx := pool.txs[0]
	require.Equal(t, 0, tx.commits)
	require.Equal(t, 1, tx.rollbacks)
}
