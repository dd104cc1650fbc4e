package services

import (
	"context"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetBalance retrieves the current point balance of an account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetHousehold retrieves a household aggregate.
	GetHousehold(ctx context.Context, householdID string) (*domain.Household, error)

	// ListHouseholdMembers retrieves all member accounts of a household.
	ListHouseholdMembers(ctx context.Context, householdID string) ([]domain.Account, error)

	// ListHouseholdAdjustments retrieves the drift corrections recorded for a
	// household, newest first.
	ListHouseholdAdjustments(ctx context.Context, householdID string, limit int) ([]domain.HouseholdAdjustment, error)
}

// AccountWriterSvc defines lifecycle operations for account data
type AccountWriterSvc interface {
	// RegisterAccount creates a pending account, with a fresh household unless
	// an existing one is joined, and assigns a unique referral code.
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, userID string) (*domain.Account, error)

	// ApproveAccount transitions a pending account to approved and triggers
	// referral processing.
	ApproveAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// RejectAccount transitions a pending account to rejected.
	RejectAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)
}

// BalanceMutatorSvc defines the point-moving operations of the store.
type BalanceMutatorSvc interface {
	// Credit increases an account balance and writes the matching ledger
	// entry, propagating the delta to the household total. Returns the new
	// balance.
	Credit(ctx context.Context, accountID string, amount decimal.Decimal, description, referenceID, userID string) (decimal.Decimal, error)

	// Debit decreases an account balance, all-or-nothing. Returns the new
	// balance.
	Debit(ctx context.Context, accountID string, amount decimal.Decimal, description, referenceID, userID string) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	BalanceMutatorSvc
}
