package repositories

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerWriter defines the balance-changing operation of the ledger.
type LedgerWriter interface {
	// ApplyBalanceChange atomically applies a ledger entry to its account:
	// lock the account row, verify the debit does not exceed the balance,
	// update the balance, propagate the signed delta to the owning household
	// total and insert the entry, all in one transaction. Returns the new
	// balance. Lock scope: account row, then household row (via UPDATE).
	ApplyBalanceChange(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error)

	// InsertEntryInTx appends an entry inside a caller-owned transaction.
	// Used by the referral and redemption flows, which manage their own locks.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerReader defines read-only queries over the append-only ledger, for
// reconciliation and reporting. There is no update or delete.
type LedgerReader interface {
	// ListEntriesByAccount retrieves a token-paginated list of entries for an
	// account, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindEntriesByReference retrieves every entry tied to a source event.
	FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error)

	// FindEntriesByTimeRange retrieves entries created in [from, to).
	FindEntriesByTimeRange(ctx context.Context, from, to time.Time, limit int) ([]domain.LedgerEntry, error)

	// SumEntriesByAccount folds an account's entries (earned positive,
	// redeemed negative). Reconciles against the stored balance.
	SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines the ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerWriter
	LedgerReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
