package services

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
)

// LedgerService exposes the read-only audit surface of the append-only ledger.
type LedgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// ListEntriesByAccount retrieves a token-paginated page of an account's
// entries, newest first.
func (s *LedgerService) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}
	return s.ledgerRepo.ListEntriesByAccount(ctx, accountID, limit, nextToken)
}

// ListEntriesByReference retrieves every entry tied to one source event.
func (s *LedgerService) ListEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.FindEntriesByReference(ctx, referenceID)
}

// ListEntriesByTimeRange retrieves entries created in [from, to).
func (s *LedgerService) ListEntriesByTimeRange(ctx context.Context, from, to time.Time, limit int) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.FindEntriesByTimeRange(ctx, from, to, limit)
}

// ReconcileAccount folds an account's entries and compares the result to the
// stored balance. The two can only disagree on operator error or a bug, since
// every balance change and its entry commit in one transaction.
func (s *LedgerService) ReconcileAccount(ctx context.Context, accountID string) (*dto.ReconciliationResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sum, err := s.ledgerRepo.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &dto.ReconciliationResponse{
		AccountID:  accountID,
		Balance:    account.Balance,
		LedgerSum:  sum,
		Consistent: account.Balance.Equal(sum),
	}, nil
}
