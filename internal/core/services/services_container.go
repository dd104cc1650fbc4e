package services

import (
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, referralBonus decimal.Decimal, notifier portssvc.NotificationDispatcher) *portssvc.ServiceContainer {
	referralSvc := NewReferralService(repos.RedemptionRepo, referralBonus, notifier)

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.AccountRepo, repos.HouseholdRepo, repos.LedgerRepo, referralSvc, notifier),
		Ledger:        NewLedgerService(repos.LedgerRepo, repos.AccountRepo),
		Referral:      referralSvc,
		Inventory:     NewInventoryService(repos.RewardRepo),
		Redemption:    NewRedemptionService(repos.RedemptionRepo, notifier),
		Recalculation: NewRecalculationService(repos.HouseholdRepo),
	}
}
