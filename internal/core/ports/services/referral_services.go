package services

import "context"

// ReferralSvcFacade exposes the referral bonus workflow.
type ReferralSvcFacade interface {
	// ProcessReferral awards the one-time bonus pair for a freshly approved
	// account. Idempotent: repeats and concurrent retries are no-ops. Returns
	// whether a bonus was awarded by this call.
	ProcessReferral(ctx context.Context, accountID string, userID string) (bool, error)
}
