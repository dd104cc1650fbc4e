package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HouseholdStatus tracks whether a household aggregate is live.
type HouseholdStatus string

const (
	HouseholdActive   HouseholdStatus = "ACTIVE"
	HouseholdArchived HouseholdStatus = "ARCHIVED"
)

// Household is the family/group aggregate whose point total derives from its
// members. TotalPoints is maintained incrementally by delta propagation inside
// each member mutation's transaction; the recalculation job is the safety net
// against drift.
type Household struct {
	HouseholdID string          `json:"householdID"` // Primary Key (UUID)
	Name        string          `json:"name"`
	Status      HouseholdStatus `json:"status"`
	TotalPoints decimal.Decimal `json:"totalPoints"`
	MemberCount int             `json:"memberCount"`
	AuditFields
}

// HouseholdAdjustment documents one drift correction made by the
// recalculation job. Drift = ComputedTotal - PreviousTotal.
type HouseholdAdjustment struct {
	AdjustmentID  string          `json:"adjustmentID"`
	HouseholdID   string          `json:"householdID"`
	PreviousTotal decimal.Decimal `json:"previousTotal"`
	ComputedTotal decimal.Decimal `json:"computedTotal"`
	Drift         decimal.Decimal `json:"drift"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}
