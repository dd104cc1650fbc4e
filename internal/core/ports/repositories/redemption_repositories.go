package repositories

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RedemptionWriter defines the cross-entity redemption transaction.
type RedemptionWriter interface {
	// CreateRedemption executes the whole redemption as one transaction:
	// lock the account, check the balance against cost taken from the locked
	// item row, lock the item, check stock, debit the balance, propagate the
	// delta to the household total, insert the ledger entry, decrement stock,
	// insert the stock event and persist the redemption. Any failure rolls
	// back every effect. Lock scope: account row, then item row, then
	// household row. PointsSpent on the returned redemption is computed from
	// the locked item, not from any earlier read.
	CreateRedemption(ctx context.Context, redemption domain.Redemption) (*domain.Redemption, error)

	// ClaimRedemption sets claimed_at if unset. Idempotent: a second call
	// returns the redemption unchanged.
	ClaimRedemption(ctx context.Context, redemptionID string, now time.Time) (*domain.Redemption, error)
}

// RedemptionReader defines read operations for redemptions
type RedemptionReader interface {
	// FindRedemptionByID retrieves a redemption by its unique identifier.
	FindRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error)

	// ListRedemptionsByAccount retrieves a token-paginated list of an
	// account's redemptions, newest first.
	ListRedemptionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Redemption, *string, error)
}

// ReferralAwarder defines the one-shot referral bonus transaction.
type ReferralAwarder interface {
	// AwardReferralBonus credits the referred account and its referrer the
	// fixed bonus inside one transaction guarded by a compare-and-set on
	// referral_bonus_awarded. Returns false when nothing was awarded: flag
	// already set, no referral code recorded, or referrer missing/unapproved.
	// Lock scope: referred account row, then referrer account row, then the
	// affected household rows.
	AwardReferralBonus(ctx context.Context, referredAccountID string, bonus decimal.Decimal, actor string, now time.Time) (bool, error)
}

// RedemptionRepositoryFacade combines redemption and referral repository interfaces
type RedemptionRepositoryFacade interface {
	RedemptionWriter
	RedemptionReader
	ReferralAwarder
}

// RedemptionRepositoryWithTx extends RedemptionRepositoryFacade with transaction capabilities
type RedemptionRepositoryWithTx interface {
	RedemptionRepositoryFacade
	TransactionManager
}
