package services

import (
	"context"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
)

// RedemptionSvcFacade exposes the redemption workflow.
type RedemptionSvcFacade interface {
	// Redeem exchanges points for a stocked item as one atomic unit spanning
	// the account balance, the household total and the item stock.
	Redeem(ctx context.Context, accountID, itemID string, quantity int, userID string) (*domain.Redemption, error)

	// Claim marks a redemption picked up. Idempotent, no financial effect.
	Claim(ctx context.Context, redemptionID string, userID string) (*domain.Redemption, error)

	// GetRedemptionByID retrieves a redemption by its unique identifier.
	GetRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error)

	// ListRedemptionsByAccount retrieves a token-paginated page of an
	// account's redemptions, newest first.
	ListRedemptionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Redemption, *string, error)
}
