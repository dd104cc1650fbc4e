package pgsql

import (
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository against a shared pool.
// The ledger and redemption repositories hold references to the account,
// household and reward repositories because their transactions span those
// tables.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	householdRepo := newPgxHouseholdRepository(pool)
	rewardRepo := newPgxRewardRepository(pool)
	ledgerRepo := newPgxLedgerRepository(pool, accountRepo, householdRepo)
	redemptionRepo := newPgxRedemptionRepository(pool, accountRepo, householdRepo, ledgerRepo, rewardRepo)

	return &portsrepo.RepositoryProvider{
		AccountRepo:    accountRepo,
		HouseholdRepo:  householdRepo,
		LedgerRepo:     ledgerRepo,
		RewardRepo:     rewardRepo,
		RedemptionRepo: redemptionRepo,
	}
}
