package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	"github.com/greenpoints/recycle_rewards_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	householdRepo portsrepo.HouseholdRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, householdRepo portsrepo.HouseholdRepositoryFacade) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		householdRepo:  householdRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const entryColumns = `entry_id, account_id, kind, amount, description, reference_id, created_at, created_by`

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.EntryID,
		&e.AccountID,
		&e.Kind,
		&e.Amount,
		&e.Description,
		&e.ReferenceID,
		&e.CreatedAt,
		&e.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ApplyBalanceChange applies one ledger entry to its account inside a single
// database transaction: lock the account row, verify a debit is covered,
// update the balance, propagate the signed delta to the owning household and
// append the entry. Returns the balance after the change.
func (r *PgxLedgerRepository) ApplyBalanceChange(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	account, err := r.accountRepo.FindAccountByIDForUpdate(ctx, tx, entry.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	delta := entry.Kind.SignedAmount(entry.Amount)
	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: balance %s, debit %s",
			apperrors.ErrInsufficientBalance, account.Balance.String(), entry.Amount.String())
	}

	if err := r.accountRepo.UpdateAccountBalanceInTx(ctx, tx, entry.AccountID, delta, entry.CreatedBy, entry.CreatedAt); err != nil {
		return decimal.Zero, err
	}
	if err := r.householdRepo.UpdateHouseholdTotalInTx(ctx, tx, account.HouseholdID, delta, entry.CreatedBy, entry.CreatedAt); err != nil {
		return decimal.Zero, err
	}
	if err := r.InsertEntryInTx(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// InsertEntryInTx appends an entry inside a caller-owned transaction.
func (r *PgxLedgerRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (entry_id, account_id, kind, amount, description, reference_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.AccountID,
		entry.Kind,
		entry.Amount,
		entry.Description,
		entry.ReferenceID,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert ledger entry "+entry.EntryID)
	}
	return nil
}

// ListEntriesByAccount retrieves a token-paginated list of entries for an
// account, newest first. The cursor orders by (created_at, entry_id) so pages
// stay stable across inserts.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`

	args := []interface{}{accountID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastEntryID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query ledger entries for account "+accountID)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, mapPgError(err, "failed to scan ledger entry row for account "+accountID)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "error iterating ledger entry rows for account "+accountID)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// FindEntriesByReference retrieves every entry tied to one source event id,
// for reconciliation against the originating record.
func (r *PgxLedgerRepository) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE reference_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, referenceID)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger entries for reference "+referenceID)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan ledger entry row for reference "+referenceID)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating ledger entry rows for reference "+referenceID)
	}
	return entries, nil
}

// FindEntriesByTimeRange retrieves entries created in [from, to).
func (r *PgxLedgerRepository) FindEntriesByTimeRange(ctx context.Context, from, to time.Time, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at LIMIT $3;`
	rows, err := r.Pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger entries by time range")
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan ledger entry row in time range")
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating ledger entry rows in time range")
	}
	return entries, nil
}

// SumEntriesByAccount folds an account's entries, earned positive and
// redeemed negative.
func (r *PgxLedgerRepository) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = $2 THEN -amount ELSE amount END), 0)
		FROM ledger_entries
		WHERE account_id = $1;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, domain.Redeemed).Scan(&sum); err != nil {
		return decimal.Zero, mapPgError(err, "failed to sum ledger entries for account "+accountID)
	}
	return sum, nil
}
