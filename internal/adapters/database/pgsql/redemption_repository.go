package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	"github.com/greenpoints/recycle_rewards_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxRedemptionRepository owns the cross-entity transactions: redemptions and
// referral bonus awards. It delegates per-row work to the sibling repositories
// so every lock and balance mutation goes through a single code path.
type PgxRedemptionRepository struct {
	BaseRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	householdRepo portsrepo.HouseholdRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	rewardRepo    portsrepo.RewardRepositoryFacade
}

// newPgxRedemptionRepository creates a new repository for redemptions.
func newPgxRedemptionRepository(
	pool *pgxpool.Pool,
	accountRepo portsrepo.AccountRepositoryFacade,
	householdRepo portsrepo.HouseholdRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	rewardRepo portsrepo.RewardRepositoryFacade,
) *PgxRedemptionRepository {
	return &PgxRedemptionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		householdRepo:  householdRepo,
		ledgerRepo:     ledgerRepo,
		rewardRepo:     rewardRepo,
	}
}

// Ensure PgxRedemptionRepository implements portsrepo.RedemptionRepositoryFacade
var _ portsrepo.RedemptionRepositoryFacade = (*PgxRedemptionRepository)(nil)

const redemptionColumns = `redemption_id, account_id, item_id, quantity, points_spent, claimed_at, created_at, created_by`

func scanRedemption(row pgx.Row) (*domain.Redemption, error) {
	var red domain.Redemption
	var claimedAt sql.NullTime
	err := row.Scan(
		&red.RedemptionID,
		&red.AccountID,
		&red.ItemID,
		&red.Quantity,
		&red.PointsSpent,
		&claimedAt,
		&red.CreatedAt,
		&red.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if claimedAt.Valid {
		red.ClaimedAt = &claimedAt.Time
	}
	return &red, nil
}

// CreateRedemption executes the whole redemption as one transaction. Lock
// order is account row, then item row, then household row; every transaction
// that touches more than one of these acquires them in the same order.
func (r *PgxRedemptionRepository) CreateRedemption(ctx context.Context, redemption domain.Redemption) (*domain.Redemption, error) {
	if redemption.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	account, err := r.accountRepo.FindAccountByIDForUpdate(ctx, tx, redemption.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", redemption.AccountID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	if account.Status != domain.AccountApproved {
		return nil, fmt.Errorf("%w: account %s is not approved", apperrors.ErrValidation, account.AccountID)
	}

	item, err := r.rewardRepo.FindItemByIDForUpdate(ctx, tx, redemption.ItemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("item %s: %w", redemption.ItemID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: item %s is not active", apperrors.ErrValidation, item.ItemID)
	}
	if item.Stock < redemption.Quantity {
		return nil, fmt.Errorf("%w: stock %d, requested %d",
			apperrors.ErrInsufficientStock, item.Stock, redemption.Quantity)
	}

	// Cost comes from the locked item row, not from whatever the caller read
	// before the lock was held.
	cost := item.CostPoints.Mul(decimal.NewFromInt(int64(redemption.Quantity)))
	if account.Balance.LessThan(cost) {
		return nil, fmt.Errorf("%w: balance %s, cost %s",
			apperrors.ErrInsufficientBalance, account.Balance.String(), cost.String())
	}
	redemption.PointsSpent = cost

	if err := r.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, cost.Neg(), redemption.CreatedBy, redemption.CreatedAt); err != nil {
		return nil, err
	}

	newStock := item.Stock - redemption.Quantity
	if err := r.rewardRepo.UpdateItemStockInTx(ctx, tx, item.ItemID, newStock, redemption.CreatedBy, redemption.CreatedAt); err != nil {
		return nil, err
	}
	if err := r.rewardRepo.InsertStockEventInTx(ctx, tx, domain.StockEvent{
		EventID:       uuid.NewString(),
		ItemID:        item.ItemID,
		Action:        domain.StockRedemption,
		Delta:         -redemption.Quantity,
		PreviousStock: item.Stock,
		NewStock:      newStock,
		Notes:         "redeemed by account " + account.AccountID,
		RedemptionID:  &redemption.RedemptionID,
		CreatedAt:     redemption.CreatedAt,
		CreatedBy:     redemption.CreatedBy,
	}); err != nil {
		return nil, err
	}

	if err := r.ledgerRepo.InsertEntryInTx(ctx, tx, domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AccountID:   account.AccountID,
		Kind:        domain.Redeemed,
		Amount:      cost,
		Description: fmt.Sprintf("redeemed %d x %s", redemption.Quantity, item.Name),
		ReferenceID: redemption.RedemptionID,
		CreatedAt:   redemption.CreatedAt,
		CreatedBy:   redemption.CreatedBy,
	}); err != nil {
		return nil, err
	}

	// Household row goes last in the lock order.
	if err := r.householdRepo.UpdateHouseholdTotalInTx(ctx, tx, account.HouseholdID, cost.Neg(), redemption.CreatedBy, redemption.CreatedAt); err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO redemptions (redemption_id, account_id, item_id, quantity, points_spent, claimed_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, NULL, $6, $7);
	`
	if _, err := tx.Exec(ctx, insert,
		redemption.RedemptionID,
		redemption.AccountID,
		redemption.ItemID,
		redemption.Quantity,
		redemption.PointsSpent,
		redemption.CreatedAt,
		redemption.CreatedBy,
	); err != nil {
		return nil, mapPgError(err, "failed to insert redemption "+redemption.RedemptionID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &redemption, nil
}

// ClaimRedemption sets claimed_at if it is still unset. A second claim finds
// no row to update and simply returns the already-claimed redemption.
func (r *PgxRedemptionRepository) ClaimRedemption(ctx context.Context, redemptionID string, now time.Time) (*domain.Redemption, error) {
	query := `
		UPDATE redemptions
		SET claimed_at = $2
		WHERE redemption_id = $1 AND claimed_at IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, redemptionID, now); err != nil {
		return nil, mapPgError(err, "failed to claim redemption "+redemptionID)
	}
	return r.FindRedemptionByID(ctx, redemptionID)
}

// FindRedemptionByID retrieves a redemption by its ID.
func (r *PgxRedemptionRepository) FindRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE redemption_id = $1;`
	red, err := scanRedemption(r.Pool.QueryRow(ctx, query, redemptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find redemption by ID "+redemptionID)
	}
	return red, nil
}

// ListRedemptionsByAccount retrieves a token-paginated list of an account's
// redemptions, newest first.
func (r *PgxRedemptionRepository) ListRedemptionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Redemption, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE account_id = $1`
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (created_at, redemption_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, redemption_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query redemptions for account "+accountID)
	}
	defer rows.Close()

	redemptions := []domain.Redemption{}
	for rows.Next() {
		red, err := scanRedemption(rows)
		if err != nil {
			return nil, nil, mapPgError(err, "failed to scan redemption row for account "+accountID)
		}
		redemptions = append(redemptions, *red)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "error iterating redemption rows for account "+accountID)
	}

	var token *string
	if len(redemptions) == fetchLimit {
		redemptions = redemptions[:limit]
		last := redemptions[len(redemptions)-1]
		encoded := pagination.EncodeToken(last.CreatedAt, last.RedemptionID)
		token = &encoded
	}
	return redemptions, token, nil
}

// AwardReferralBonus credits both sides of a referral inside one transaction.
// The compare-and-set on referral_bonus_awarded makes the award exactly-once
// no matter how many times approval is retried.
func (r *PgxRedemptionRepository) AwardReferralBonus(ctx context.Context, referredAccountID string, bonus decimal.Decimal, actor string, now time.Time) (bool, error) {
	if !bonus.IsPositive() {
		return false, apperrors.ErrInvalidAmount
	}

	// Resolve both parties with plain reads before taking any row locks, so
	// the locks can be acquired in sorted ID order. Mutual referrals approved
	// concurrently would deadlock under referred-then-referrer ordering.
	preview, err := r.accountRepo.FindAccountByID(ctx, referredAccountID)
	if err != nil {
		return false, err
	}
	if preview.ReferralBonusAwarded || preview.ReferredByCode == nil {
		return false, nil
	}
	referrerPreview, err := r.accountRepo.FindAccountByReferralCode(ctx, *preview.ReferredByCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if referrerPreview.AccountID == referredAccountID {
		return false, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	lockIDs := []string{referredAccountID, referrerPreview.AccountID}
	sort.Strings(lockIDs)
	locked := make(map[string]*domain.Account, len(lockIDs))
	for _, id := range lockIDs {
		account, err := r.accountRepo.FindAccountByIDForUpdate(ctx, tx, id)
		if err != nil {
			return false, err
		}
		locked[id] = account
	}
	referred := locked[referredAccountID]
	referrer := locked[referrerPreview.AccountID]

	// The preview reads were unlocked, so re-validate from the locked rows.
	if referred.ReferralBonusAwarded || referred.ReferredByCode == nil ||
		*referred.ReferredByCode != referrer.ReferralCode {
		return false, nil
	}
	if referrer.Status != domain.AccountApproved {
		return false, nil
	}

	awarded, err := r.accountRepo.MarkReferralBonusAwardedInTx(ctx, tx, referred.AccountID, actor, now)
	if err != nil {
		return false, err
	}
	if !awarded {
		return false, nil
	}

	referenceID := "referral-" + referred.AccountID
	credits := []struct {
		account     *domain.Account
		description string
	}{
		{referred, "referral bonus for joining via code " + *referred.ReferredByCode},
		{referrer, "referral bonus for referring account " + referred.AccountID},
	}
	householdDeltas := map[string]decimal.Decimal{}
	for _, c := range credits {
		if err := r.accountRepo.UpdateAccountBalanceInTx(ctx, tx, c.account.AccountID, bonus, actor, now); err != nil {
			return false, err
		}
		if err := r.ledgerRepo.InsertEntryInTx(ctx, tx, domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			AccountID:   c.account.AccountID,
			Kind:        domain.Earned,
			Amount:      bonus,
			Description: c.description,
			ReferenceID: referenceID,
			CreatedAt:   now,
			CreatedBy:   actor,
		}); err != nil {
			return false, err
		}
		householdDeltas[c.account.HouseholdID] = householdDeltas[c.account.HouseholdID].Add(bonus)
	}

	// Household rows last, in a fixed order so concurrent awards that share a
	// household cannot deadlock.
	householdIDs := make([]string, 0, len(householdDeltas))
	for id := range householdDeltas {
		householdIDs = append(householdIDs, id)
	}
	sort.Strings(householdIDs)
	for _, id := range householdIDs {
		if err := r.householdRepo.UpdateHouseholdTotalInTx(ctx, tx, id, householdDeltas[id], actor, now); err != nil {
			return false, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}
