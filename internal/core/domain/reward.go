package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RedeemableItem is a stocked good residents can exchange points for.
// Stock is mutated only through the inventory ledger; deactivation is
// preferred over deletion so redemption history stays valid.
type RedeemableItem struct {
	ItemID      string          `json:"itemID"` // Primary Key (UUID)
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CostPoints  decimal.Decimal `json:"costPoints"` // Price of one unit, in points
	Stock       int             `json:"stock"`      // Never negative
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// StockAction classifies a stock mutation.
type StockAction string

const (
	StockRestock    StockAction = "RESTOCK"
	StockRedemption StockAction = "REDEMPTION"
	StockCorrection StockAction = "CORRECTION"
)

// StockEvent is the immutable record of one inventory quantity change,
// analogous to a ledger entry for items.
// Invariant: PreviousStock + Delta == NewStock.
type StockEvent struct {
	EventID       string      `json:"eventID"` // Primary Key (UUID)
	ItemID        string      `json:"itemID"`  // FK -> redeemable_items.item_id
	Action        StockAction `json:"action"`
	Delta         int         `json:"delta"` // Signed quantity change
	PreviousStock int         `json:"previousStock"`
	NewStock      int         `json:"newStock"`
	Notes         string      `json:"notes"`
	RedemptionID  *string     `json:"redemptionID"` // Set when caused by a redemption
	CreatedAt     time.Time   `json:"createdAt"`
	CreatedBy     string      `json:"createdBy"` // Actor
}
