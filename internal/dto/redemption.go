package dto

import (
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RedeemRequest defines the data needed to redeem points for an item.
type RedeemRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	ItemID    string `json:"itemID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// RedemptionResponse defines the data returned for a redemption.
type RedemptionResponse struct {
	RedemptionID string          `json:"redemptionID"`
	AccountID    string          `json:"accountID"`
	ItemID       string          `json:"itemID"`
	Quantity     int             `json:"quantity"`
	PointsSpent  decimal.Decimal `json:"pointsSpent"`
	ClaimedAt    *time.Time      `json:"claimedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToRedemptionResponse converts a domain.Redemption to its response DTO
func ToRedemptionResponse(r *domain.Redemption) RedemptionResponse {
	return RedemptionResponse{
		RedemptionID: r.RedemptionID,
		AccountID:    r.AccountID,
		ItemID:       r.ItemID,
		Quantity:     r.Quantity,
		PointsSpent:  r.PointsSpent,
		ClaimedAt:    r.ClaimedAt,
		CreatedAt:    r.CreatedAt,
	}
}

// ToListRedemptionResponse converts a slice of redemptions to response DTOs
func ToListRedemptionResponse(rs []domain.Redemption) []RedemptionResponse {
	res := make([]RedemptionResponse, len(rs))
	for i := range rs {
		res[i] = ToRedemptionResponse(&rs[i])
	}
	return res
}
