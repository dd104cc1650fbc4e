package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
	"github.com/greenpoints/recycle_rewards_app/pkg/metrics"
)

// RedemptionService exposes the redemption workflow. The atomicity lives in
// the repository transaction; this layer validates input and handles the
// post-commit side effects.
type RedemptionService struct {
	redemptionRepo portsrepo.RedemptionRepositoryFacade
	notifier       portssvc.NotificationDispatcher
}

func NewRedemptionService(redemptionRepo portsrepo.RedemptionRepositoryFacade, notifier portssvc.NotificationDispatcher) *RedemptionService {
	return &RedemptionService{
		redemptionRepo: redemptionRepo,
		notifier:       notifier,
	}
}

var _ portssvc.RedemptionSvcFacade = (*RedemptionService)(nil)

// Redeem exchanges points for a stocked item as one atomic unit spanning the
// account balance, the household total and the item stock.
func (s *RedemptionService) Redeem(ctx context.Context, accountID, itemID string, quantity int, userID string) (*domain.Redemption, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	redemption, err := s.redemptionRepo.CreateRedemption(ctx, domain.Redemption{
		RedemptionID: uuid.NewString(),
		AccountID:    accountID,
		ItemID:       itemID,
		Quantity:     quantity,
		CreatedAt:    time.Now(),
		CreatedBy:    userID,
	})
	if err != nil {
		logger.Warn("Redemption rejected",
			slog.String("account_id", accountID),
			slog.String("item_id", itemID),
			slog.Int("quantity", quantity),
			slog.String("error", err.Error()))
		return nil, err
	}

	metrics.RedemptionsCompleted.Inc()
	logger.Info("Redemption completed",
		slog.String("redemption_id", redemption.RedemptionID),
		slog.String("account_id", accountID),
		slog.String("points_spent", redemption.PointsSpent.String()))
	s.notifier.Dispatch(ctx, portssvc.Notification{
		Kind:      portssvc.NotifyRedeemed,
		AccountID: accountID,
		Message:   fmt.Sprintf("Redeemed %d item(s) for %s points", quantity, redemption.PointsSpent.String()),
	})
	return redemption, nil
}

// Claim marks a redemption picked up. Idempotent, no financial effect.
func (s *RedemptionService) Claim(ctx context.Context, redemptionID string, userID string) (*domain.Redemption, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	redemption, err := s.redemptionRepo.ClaimRedemption(ctx, redemptionID, time.Now())
	if err != nil {
		return nil, err
	}
	logger.Info("Redemption claimed",
		slog.String("redemption_id", redemptionID),
		slog.String("claimed_by", userID))
	return redemption, nil
}

// GetRedemptionByID retrieves a redemption by its unique identifier.
func (s *RedemptionService) GetRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	return s.redemptionRepo.FindRedemptionByID(ctx, redemptionID)
}

// ListRedemptionsByAccount retrieves a token-paginated page of an account's
// redemptions, newest first.
func (s *RedemptionService) ListRedemptionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Redemption, *string, error) {
	return s.redemptionRepo.ListRedemptionsByAccount(ctx, accountID, limit, nextToken)
}
