package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus tracks the registration lifecycle of a resident account.
type AccountStatus string

const (
	AccountPending  AccountStatus = "PENDING"
	AccountApproved AccountStatus = "APPROVED"
	AccountRejected AccountStatus = "REJECTED"
)

// Account represents a resident's point account within the core domain.
// This is the primary representation used by services.
//
// Balance never goes negative; ReferralBonusAwarded transitions false->true
// exactly once, enforced by a compare-and-set inside the awarding transaction.
type Account struct {
	AccountID            string          `json:"accountID"`   // Primary Key (UUID)
	HouseholdID          string          `json:"householdID"` // FK -> households.household_id (NON-NULL)
	Name                 string          `json:"name"`
	Status               AccountStatus   `json:"status"`
	Balance              decimal.Decimal `json:"balance"`        // Current point balance
	ReferralCode         string          `json:"referralCode"`   // Unique code handed to this resident
	ReferredByCode       *string         `json:"referredByCode"` // Nullable code of the referrer
	ReferralBonusAwarded bool            `json:"referralBonusAwarded"`
	AuditFields
}
