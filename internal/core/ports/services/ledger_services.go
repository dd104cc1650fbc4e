package services

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
)

// LedgerSvcFacade exposes the read-only audit surface of the ledger.
type LedgerSvcFacade interface {
	// ListEntriesByAccount retrieves a token-paginated page of an account's
	// entries, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListEntriesByReference retrieves every entry tied to one source event.
	ListEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error)

	// ListEntriesByTimeRange retrieves entries created in [from, to).
	ListEntriesByTimeRange(ctx context.Context, from, to time.Time, limit int) ([]domain.LedgerEntry, error)

	// ReconcileAccount folds an account's entries and compares the result to
	// the stored balance.
	ReconcileAccount(ctx context.Context, accountID string) (*dto.ReconciliationResponse, error)
}
