package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	// HouseholdRepo carries TransactionManager so the recalculation service
	// can run its compare-and-correct inside one transaction.
	HouseholdRepo  HouseholdRepositoryWithTx
	LedgerRepo     LedgerRepositoryFacade
	RewardRepo     RewardRepositoryFacade
	RedemptionRepo RedemptionRepositoryFacade
}
