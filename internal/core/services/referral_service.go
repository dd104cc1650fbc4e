package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
	"github.com/greenpoints/recycle_rewards_app/pkg/metrics"
	"github.com/shopspring/decimal"
)

// ReferralService awards the one-time referral bonus pair. The actual
// compare-and-set lives in the repository transaction; this layer adds the
// configured bonus amount, metrics and notification.
type ReferralService struct {
	awarder  portsrepo.ReferralAwarder
	bonus    decimal.Decimal
	notifier portssvc.NotificationDispatcher
}

func NewReferralService(awarder portsrepo.ReferralAwarder, bonus decimal.Decimal, notifier portssvc.NotificationDispatcher) *ReferralService {
	return &ReferralService{
		awarder:  awarder,
		bonus:    bonus,
		notifier: notifier,
	}
}

var _ portssvc.ReferralSvcFacade = (*ReferralService)(nil)

// ProcessReferral awards the bonus pair for a freshly approved account.
// Idempotent: repeats and concurrent retries return false without error.
func (s *ReferralService) ProcessReferral(ctx context.Context, accountID string, userID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	awarded, err := s.awarder.AwardReferralBonus(ctx, accountID, s.bonus, userID, time.Now())
	if err != nil {
		logger.Error("Referral bonus award failed",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		return false, err
	}
	if !awarded {
		logger.Info("No referral bonus to award", slog.String("account_id", accountID))
		return false, nil
	}

	metrics.ReferralBonusesAwarded.Inc()
	logger.Info("Referral bonus awarded",
		slog.String("account_id", accountID),
		slog.String("bonus", s.bonus.String()))
	s.notifier.Dispatch(ctx, portssvc.Notification{
		Kind:      portssvc.NotifyBonusAwarded,
		AccountID: accountID,
		Message:   "Referral bonus of " + s.bonus.String() + " points awarded",
	})
	return true, nil
}
