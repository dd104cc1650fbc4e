package dto

import (
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HouseholdResponse defines the data returned for a household aggregate.
type HouseholdResponse struct {
	HouseholdID string                 `json:"householdID"`
	Name        string                 `json:"name"`
	Status      domain.HouseholdStatus `json:"status"`
	TotalPoints decimal.Decimal        `json:"totalPoints"`
	MemberCount int                    `json:"memberCount"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ToHouseholdResponse converts a domain.Household to its response DTO
func ToHouseholdResponse(h *domain.Household) HouseholdResponse {
	return HouseholdResponse{
		HouseholdID: h.HouseholdID,
		Name:        h.Name,
		Status:      h.Status,
		TotalPoints: h.TotalPoints,
		MemberCount: h.MemberCount,
		CreatedAt:   h.CreatedAt,
	}
}

// AdjustmentResponse defines the data returned for one drift correction.
type AdjustmentResponse struct {
	AdjustmentID  string          `json:"adjustmentID"`
	HouseholdID   string          `json:"householdID"`
	PreviousTotal decimal.Decimal `json:"previousTotal"`
	ComputedTotal decimal.Decimal `json:"computedTotal"`
	Drift         decimal.Decimal `json:"drift"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToListAdjustmentResponse converts a slice of adjustments to response DTOs
func ToListAdjustmentResponse(adjs []domain.HouseholdAdjustment) []AdjustmentResponse {
	res := make([]AdjustmentResponse, len(adjs))
	for i, a := range adjs {
		res[i] = AdjustmentResponse{
			AdjustmentID:  a.AdjustmentID,
			HouseholdID:   a.HouseholdID,
			PreviousTotal: a.PreviousTotal,
			ComputedTotal: a.ComputedTotal,
			Drift:         a.Drift,
			Reason:        a.Reason,
			CreatedAt:     a.CreatedAt,
			CreatedBy:     a.CreatedBy,
		}
	}
	return res
}

// RecalculationResultResponse summarizes one recalculation run.
type RecalculationResultResponse struct {
	HouseholdsChecked   int `json:"householdsChecked"`
	HouseholdsCorrected int `json:"householdsCorrected"`
	Failures            int `json:"failures"`
}
