package dto

import (
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID     string           `json:"entryID"`
	AccountID   string           `json:"accountID"`
	Kind        domain.EntryKind `json:"kind"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	ReferenceID string           `json:"referenceID"`
	CreatedAt   time.Time        `json:"createdAt"`
	CreatedBy   string           `json:"createdBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:     e.EntryID,
		AccountID:   e.AccountID,
		Kind:        e.Kind,
		Amount:      e.Amount,
		Description: e.Description,
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToListLedgerEntryResponse converts a slice of entries to response DTOs
func ToListLedgerEntryResponse(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToLedgerEntryResponse(e)
	}
	return res
}

// ListEntriesParams defines query parameters for paginated entry listings.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries with the continuation token.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// TimeRangeParams defines query parameters for a time-bounded entry listing.
type TimeRangeParams struct {
	From  time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To    time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit int       `form:"limit,default=100"`
}

// ReconciliationResponse reports whether an account's ledger folds to its
// stored balance.
type ReconciliationResponse struct {
	AccountID  string          `json:"accountID"`
	Balance    decimal.Decimal `json:"balance"`
	LedgerSum  decimal.Decimal `json:"ledgerSum"`
	Consistent bool            `json:"consistent"`
}
