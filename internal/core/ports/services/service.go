package services

// ServiceContainer holds all service facades needed by the handler layer.
type ServiceContainer struct {
	Account       AccountSvcFacade
	Ledger        LedgerSvcFacade
	Referral      ReferralSvcFacade
	Inventory     InventorySvcFacade
	Redemption    RedemptionSvcFacade
	Recalculation RecalculationSvcFacade
}
