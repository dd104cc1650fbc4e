package repositories

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// HouseholdReader defines read operations for household data
type HouseholdReader interface {
	// FindHouseholdByID retrieves a household by its unique identifier.
	FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error)

	// ListHouseholdIDs returns the ids of all active households, for the
	// recalculation job.
	ListHouseholdIDs(ctx context.Context) ([]string, error)

	// ListAdjustmentsByHousehold returns the drift corrections recorded for a
	// household, newest first.
	ListAdjustmentsByHousehold(ctx context.Context, householdID string, limit int) ([]domain.HouseholdAdjustment, error)
}

// HouseholdTransactionSupport defines operations that participate in a
// caller's database transaction. Lock scope: the named household row.
type HouseholdTransactionSupport interface {
	// FindHouseholdByIDForUpdate selects a household and locks its row.
	FindHouseholdByIDForUpdate(ctx context.Context, tx pgx.Tx, householdID string) (*domain.Household, error)

	// UpdateHouseholdTotalInTx applies a signed delta to the cached total.
	UpdateHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, delta decimal.Decimal, userID string, now time.Time) error

	// SumMemberBalancesInTx recomputes the true total from all member
	// balances, regardless of account status, so it agrees with the
	// unconditional delta propagation done on every balance change.
	// Must run inside the same transaction that holds the household
	// row lock so the comparison is not racing member mutations.
	SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, householdID string) (decimal.Decimal, int, error)

	// SetHouseholdTotalInTx overwrites the cached total with a recomputed one.
	SetHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, total decimal.Decimal, userID string, now time.Time) error

	// SaveAdjustmentInTx records a drift correction.
	SaveAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.HouseholdAdjustment) error
}

// HouseholdRepositoryFacade combines all household-related repository interfaces
type HouseholdRepositoryFacade interface {
	HouseholdReader
	HouseholdTransactionSupport
}

// HouseholdRepositoryWithTx extends HouseholdRepositoryFacade with transaction capabilities
type HouseholdRepositoryWithTx interface {
	HouseholdRepositoryFacade
	TransactionManager
}
