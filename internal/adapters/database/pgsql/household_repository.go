package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxHouseholdRepository struct {
	BaseRepository
}

// newPgxHouseholdRepository creates a new repository for household data.
func newPgxHouseholdRepository(pool *pgxpool.Pool) *PgxHouseholdRepository {
	return &PgxHouseholdRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxHouseholdRepository implements portsrepo.HouseholdRepositoryFacade
var _ portsrepo.HouseholdRepositoryFacade = (*PgxHouseholdRepository)(nil)

const householdColumns = `household_id, name, status, total_points, member_count, created_at, created_by, last_updated_at, last_updated_by`

func scanHousehold(row pgx.Row) (*domain.Household, error) {
	var h domain.Household
	err := row.Scan(
		&h.HouseholdID,
		&h.Name,
		&h.Status,
		&h.TotalPoints,
		&h.MemberCount,
		&h.CreatedAt,
		&h.CreatedBy,
		&h.LastUpdatedAt,
		&h.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// FindHouseholdByID retrieves a household by its ID.
func (r *PgxHouseholdRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE household_id = $1;`
	h, err := scanHousehold(r.Pool.QueryRow(ctx, query, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find household by ID "+householdID)
	}
	return h, nil
}

// ListHouseholdIDs returns the ids of all active households.
func (r *PgxHouseholdRepository) ListHouseholdIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT household_id FROM households WHERE status = $1 ORDER BY household_id;`, domain.HouseholdActive)
	if err != nil {
		return nil, mapPgError(err, "failed to query household ids")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapPgError(err, "failed to scan household id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating household ids")
	}
	return ids, nil
}

// ListAdjustmentsByHousehold returns recorded drift corrections, newest first.
func (r *PgxHouseholdRepository) ListAdjustmentsByHousehold(ctx context.Context, householdID string, limit int) ([]domain.HouseholdAdjustment, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT adjustment_id, household_id, previous_total, computed_total, drift, reason, created_at, created_by
		FROM household_adjustments
		WHERE household_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, householdID, limit)
	if err != nil {
		return nil, mapPgError(err, "failed to query adjustments for household "+householdID)
	}
	defer rows.Close()

	adjustments := []domain.HouseholdAdjustment{}
	for rows.Next() {
		var a domain.HouseholdAdjustment
		err := rows.Scan(
			&a.AdjustmentID,
			&a.HouseholdID,
			&a.PreviousTotal,
			&a.ComputedTotal,
			&a.Drift,
			&a.Reason,
			&a.CreatedAt,
			&a.CreatedBy,
		)
		if err != nil {
			return nil, mapPgError(err, "failed to scan adjustment row for household "+householdID)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating adjustment rows for household "+householdID)
	}
	return adjustments, nil
}

// FindHouseholdByIDForUpdate retrieves a household and locks its row.
// Must be called within a transaction.
func (r *PgxHouseholdRepository) FindHouseholdByIDForUpdate(ctx context.Context, tx pgx.Tx, householdID string) (*domain.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE household_id = $1 FOR UPDATE;`
	h, err := scanHousehold(tx.QueryRow(ctx, query, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to lock household "+householdID)
	}
	return h, nil
}

// UpdateHouseholdTotalInTx applies a signed delta to the cached household
// total. Runs last inside balance-changing transactions so household rows are
// always the final lock taken, keeping the lock order acyclic.
func (r *PgxHouseholdRepository) UpdateHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE households
		SET total_points = total_points + $2, last_updated_at = $3, last_updated_by = $4
		WHERE household_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, householdID, delta, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update total for household "+householdID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: household %s not found during total update", apperrors.ErrNotFound, householdID)
	}
	return nil
}

// SumMemberBalancesInTx recomputes the true household total from all member
// balances, inside the caller's transaction. Every member is counted
// regardless of status so the total matches the unconditional delta
// propagation in ApplyBalanceChange.
func (r *PgxHouseholdRepository) SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, householdID string) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0), COUNT(*)
		FROM accounts
		WHERE household_id = $1;
	`
	var sum decimal.Decimal
	var count int
	if err := tx.QueryRow(ctx, query, householdID).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, mapPgError(err, "failed to sum member balances for household "+householdID)
	}
	return sum, count, nil
}

// SetHouseholdTotalInTx overwrites the cached total with a recomputed one.
func (r *PgxHouseholdRepository) SetHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, total decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE households
		SET total_points = $2, last_updated_at = $3, last_updated_by = $4
		WHERE household_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, householdID, total, now, userID)
	if err != nil {
		return mapPgError(err, "failed to set total for household "+householdID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: household %s not found during total overwrite", apperrors.ErrNotFound, householdID)
	}
	return nil
}

// SaveAdjustmentInTx records a drift correction.
func (r *PgxHouseholdRepository) SaveAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.HouseholdAdjustment) error {
	query := `
		INSERT INTO household_adjustments (adjustment_id, household_id, previous_total, computed_total, drift, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		adjustment.AdjustmentID,
		adjustment.HouseholdID,
		adjustment.PreviousTotal,
		adjustment.ComputedTotal,
		adjustment.Drift,
		adjustment.Reason,
		adjustment.CreatedAt,
		adjustment.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert adjustment for household "+adjustment.HouseholdID)
	}
	return nil
}
