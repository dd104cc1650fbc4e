package services

import "context"

// RecalculationResult summarizes one recalculation run.
type RecalculationResult struct {
	HouseholdsChecked   int
	HouseholdsCorrected int
	Failures            int
}

// RecalculationSvcFacade exposes the offline household-total repair job.
type RecalculationSvcFacade interface {
	// RecalculateHousehold recomputes one household total from all of its
	// members and corrects it on drift. Returns whether a correction was made.
	RecalculateHousehold(ctx context.Context, householdID string, userID string) (bool, error)

	// RecalculateAll runs RecalculateHousehold over every active household,
	// retrying transient lock timeouts with backoff.
	RecalculateAll(ctx context.Context, userID string) (*RecalculationResult, error)
}
