package repositories

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByReferralCode retrieves the account owning a referral code.
	FindAccountByReferralCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccountsByHousehold retrieves all member accounts of a household.
	ListAccountsByHousehold(ctx context.Context, householdID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// CreateAccountWithHousehold persists a new account together with its
	// household aggregate in a single transaction.
	CreateAccountWithHousehold(ctx context.Context, account domain.Account, household domain.Household) error

	// SaveAccount persists a new account into an existing household and bumps
	// the household member count.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus transitions the registration status of an account.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that participate in a caller's
// database transaction. Lock scope: each method locks exactly the named
// account row via SELECT ... FOR UPDATE or an UPDATE on it.
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and locks its row for update.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// UpdateAccountBalanceInTx applies a signed delta to an account balance.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error

	// MarkReferralBonusAwardedInTx flips referral_bonus_awarded false->true.
	// Returns false without error when the flag was already set, which is how
	// concurrent approval retries collapse to a single award.
	MarkReferralBonusAwardedInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string, now time.Time) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
