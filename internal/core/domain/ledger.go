package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind indicates whether a ledger entry added or removed points.
type EntryKind string

const (
	Earned   EntryKind = "EARNED"
	Redeemed EntryKind = "REDEEMED"
)

// SignedAmount returns the amount with the sign implied by the entry kind:
// earned entries count positive, redeemed entries negative. The sum of signed
// amounts over an account's entries reconciles to its balance.
func (k EntryKind) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if k == Redeemed {
		return amount.Neg()
	}
	return amount
}

// LedgerEntry is the immutable record of a single point-balance change.
// Entries are written only inside the transaction performing the change, so a
// reader never observes a balance without its audit trail or vice versa.
type LedgerEntry struct {
	EntryID     string          `json:"entryID"`   // Primary Key (UUID)
	AccountID   string          `json:"accountID"` // FK -> accounts.account_id (Not Null)
	Kind        EntryKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`      // Always positive; sign comes from Kind
	Description string          `json:"description"` // Human-readable cause
	ReferenceID string          `json:"referenceID"` // Source event id (redemption, intake, referral...)
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"` // Actor
}
