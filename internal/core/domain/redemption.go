package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Redemption records an exchange of points for a stocked item. It is created
// atomically with exactly one ledger entry and one stock event and is
// immutable afterwards except for ClaimedAt, which is set once when the
// resident picks the item up.
type Redemption struct {
	RedemptionID string          `json:"redemptionID"` // Primary Key (UUID)
	AccountID    string          `json:"accountID"`    // FK -> accounts.account_id
	ItemID       string          `json:"itemID"`       // FK -> redeemable_items.item_id
	Quantity     int             `json:"quantity"`
	PointsSpent  decimal.Decimal `json:"pointsSpent"` // CostPoints * Quantity at redemption time
	ClaimedAt    *time.Time      `json:"claimedAt"`   // Nullable pickup timestamp
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"` // Actor
}

// Claimed reports whether the redemption has been picked up.
func (r Redemption) Claimed() bool {
	return r.ClaimedAt != nil
}
