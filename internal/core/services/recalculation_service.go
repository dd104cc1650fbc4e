package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
	"github.com/greenpoints/recycle_rewards_app/pkg/metrics"
	"github.com/sethvargo/go-retry"
)

const (
	recalcRetryBase = 100 * time.Millisecond
	recalcRetries   = 3
)

// RecalculationService repairs drift between cached household totals and the
// sum of member balances. Drift cannot arise from the transactional paths; it
// comes from operator surgery or bugs, and this job is the safety net.
type RecalculationService struct {
	householdRepo portsrepo.HouseholdRepositoryWithTx
}

func NewRecalculationService(householdRepo portsrepo.HouseholdRepositoryWithTx) *RecalculationService {
	return &RecalculationService{householdRepo: householdRepo}
}

var _ portssvc.RecalculationSvcFacade = (*RecalculationService)(nil)

// RecalculateHousehold recomputes one household total from all of its
// members and corrects it on drift. Returns whether a correction was made.
//
// The household row lock is held while member balances are summed, so a
// concurrent credit or redemption waits on us (its household update runs last
// in its transaction) rather than racing the comparison.
func (s *RecalculationService) RecalculateHousehold(ctx context.Context, householdID string, userID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.householdRepo.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer s.householdRepo.Rollback(ctx, tx)

	household, err := s.householdRepo.FindHouseholdByIDForUpdate(ctx, tx, householdID)
	if err != nil {
		return false, err
	}

	computed, memberCount, err := s.householdRepo.SumMemberBalancesInTx(ctx, tx, householdID)
	if err != nil {
		return false, err
	}

	if household.TotalPoints.Equal(computed) {
		// Nothing to correct; release the lock without writing.
		return false, s.householdRepo.Commit(ctx, tx)
	}

	drift := household.TotalPoints.Sub(computed)
	now := time.Now()
	if err := s.householdRepo.SetHouseholdTotalInTx(ctx, tx, householdID, computed, userID, now); err != nil {
		return false, err
	}
	if err := s.householdRepo.SaveAdjustmentInTx(ctx, tx, domain.HouseholdAdjustment{
		AdjustmentID:  uuid.NewString(),
		HouseholdID:   householdID,
		PreviousTotal: household.TotalPoints,
		ComputedTotal: computed,
		Drift:         drift,
		Reason:        "scheduled recalculation",
		CreatedAt:     now,
		CreatedBy:     userID,
	}); err != nil {
		return false, err
	}
	if err := s.householdRepo.Commit(ctx, tx); err != nil {
		return false, err
	}

	metrics.HouseholdDriftCorrections.Inc()
	logger.Warn("Household total drift corrected",
		slog.String("household_id", householdID),
		slog.String("previous_total", household.TotalPoints.String()),
		slog.String("computed_total", computed.String()),
		slog.String("drift", drift.String()),
		slog.Int("member_count", memberCount))
	return true, nil
}

// RecalculateAll runs RecalculateHousehold over every active household.
// Lock timeouts are retried with backoff; persistent failures are counted and
// the run continues with the remaining households.
func (s *RecalculationService) RecalculateAll(ctx context.Context, userID string) (*portssvc.RecalculationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ids, err := s.householdRepo.ListHouseholdIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &portssvc.RecalculationResult{}
	for _, id := range ids {
		result.HouseholdsChecked++

		var corrected bool
		backoff := retry.WithMaxRetries(recalcRetries, retry.NewFibonacci(recalcRetryBase))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			var recalcErr error
			corrected, recalcErr = s.RecalculateHousehold(ctx, id, userID)
			if errors.Is(recalcErr, apperrors.ErrLockTimeout) {
				return retry.RetryableError(recalcErr)
			}
			return recalcErr
		})
		if err != nil {
			result.Failures++
			logger.Error("Household recalculation failed",
				slog.String("household_id", id),
				slog.String("error", err.Error()))
			continue
		}
		if corrected {
			result.HouseholdsCorrected++
		}
	}

	logger.Info("Recalculation run finished",
		slog.Int("checked", result.HouseholdsChecked),
		slog.Int("corrected", result.HouseholdsCorrected),
		slog.Int("failures", result.Failures))
	return result, nil
}
