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
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, household_id, name, status, balance, referral_code, referred_by_code, referral_bonus_awarded, created_at, created_by, last_updated_at, last_updated_by`

// scanAccount reads one account row. referred_by_code is the only nullable
// column.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var referredBy sql.NullString
	err := row.Scan(
		&acc.AccountID,
		&acc.HouseholdID,
		&acc.Name,
		&acc.Status,
		&acc.Balance,
		&acc.ReferralCode,
		&referredBy,
		&acc.ReferralBonusAwarded,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if referredBy.Valid {
		acc.ReferredByCode = &referredBy.String
	}
	return &acc, nil
}

// CreateAccountWithHousehold inserts the account and its household aggregate
// in one transaction so registration can never leave one without the other.
func (r *PgxAccountRepository) CreateAccountWithHousehold(ctx context.Context, account domain.Account, household domain.Household) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	householdQuery := `
		INSERT INTO households (household_id, name, status, total_points, member_count, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, householdQuery,
		household.HouseholdID,
		household.Name,
		household.Status,
		household.TotalPoints,
		household.MemberCount,
		household.CreatedAt,
		household.CreatedBy,
		household.LastUpdatedAt,
		household.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert household "+household.HouseholdID)
	}

	if err := r.insertAccount(ctx, tx, account); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveAccount inserts a new account into an existing household and bumps the
// household member count in the same transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertAccount(ctx, tx, account); err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE households
		SET member_count = member_count + 1, last_updated_at = $2, last_updated_by = $3
		WHERE household_id = $1;
	`, account.HouseholdID, account.LastUpdatedAt, account.CreatedBy)
	if err != nil {
		return mapPgError(err, "failed to bump member count for household "+account.HouseholdID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: household %s", apperrors.ErrNotFound, account.HouseholdID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxAccountRepository) insertAccount(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, household_id, name, status, balance, referral_code, referred_by_code, referral_bonus_awarded, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	var referredBy sql.NullString
	if account.ReferredByCode != nil && *account.ReferredByCode != "" {
		referredBy = sql.NullString{String: *account.ReferredByCode, Valid: true}
	}

	_, err := tx.Exec(ctx, query,
		account.AccountID,
		account.HouseholdID,
		account.Name,
		account.Status,
		account.Balance,
		account.ReferralCode,
		referredBy,
		account.ReferralBonusAwarded,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert account "+account.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find account by ID "+accountID)
	}
	return acc, nil
}

// FindAccountByReferralCode retrieves the account owning a referral code.
func (r *PgxAccountRepository) FindAccountByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE referral_code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find account by referral code")
	}
	return acc, nil
}

// ListAccountsByHousehold retrieves all member accounts of a household.
func (r *PgxAccountRepository) ListAccountsByHousehold(ctx context.Context, householdID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE household_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, mapPgError(err, "failed to query accounts for household "+householdID)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan account row for household "+householdID)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account rows for household "+householdID)
	}
	return accounts, nil
}

// UpdateAccountStatus transitions the registration status of an account.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, status, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update status for account "+accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountByIDForUpdate retrieves an account and locks its row.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	acc, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to lock account "+accountID)
	}
	return acc, nil
}

// UpdateAccountBalanceInTx applies a signed delta to an account balance
// within a transaction. The caller holds the row lock and has already
// verified the result stays non-negative; the CHECK constraint on the column
// is the last line of defense.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, delta, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update balance for account "+accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// MarkReferralBonusAwardedInTx flips referral_bonus_awarded false->true as a
// compare-and-set. Returning false means another transaction already claimed
// the award; the caller must then skip the credits.
func (r *PgxAccountRepository) MarkReferralBonusAwardedInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET referral_bonus_awarded = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND referral_bonus_awarded = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return false, mapPgError(err, "failed to mark referral bonus awarded for account "+accountID)
	}
	return cmdTag.RowsAffected() == 1, nil
}
