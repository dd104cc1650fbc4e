package dto

import (
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterAccountRequest defines the data needed to register a new resident
// account. A household is created alongside unless an existing one is named.
type RegisterAccountRequest struct {
	Name           string  `json:"name" binding:"required"`
	HouseholdName  string  `json:"householdName"`            // Used when creating a fresh household
	HouseholdID    *string `json:"householdID"`              // Optional: join an existing household
	ReferredByCode *string `json:"referredByCode,omitempty"` // Optional referral code of the inviter
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID            string               `json:"accountID"`
	HouseholdID          string               `json:"householdID"`
	Name                 string               `json:"name"`
	Status               domain.AccountStatus `json:"status"`
	Balance              decimal.Decimal      `json:"balance"`
	ReferralCode         string               `json:"referralCode"`
	ReferralBonusAwarded bool                 `json:"referralBonusAwarded"`
	CreatedAt            time.Time            `json:"createdAt"`
	LastUpdatedAt        time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:            acc.AccountID,
		HouseholdID:          acc.HouseholdID,
		Name:                 acc.Name,
		Status:               acc.Status,
		Balance:              acc.Balance,
		ReferralCode:         acc.ReferralCode,
		ReferralBonusAwarded: acc.ReferralBonusAwarded,
		CreatedAt:            acc.CreatedAt,
		LastUpdatedAt:        acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// BalanceChangeRequest defines a credit or debit against an account.
type BalanceChangeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,dpositive"`
	Description string          `json:"description" binding:"required"`
	ReferenceID string          `json:"referenceID" binding:"required"`
}

// BalanceResponse defines the data returned for a balance query or mutation.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}
