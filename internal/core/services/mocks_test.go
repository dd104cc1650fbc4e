package services_test

import (
	"context"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByHousehold(ctx context.Context, householdID string) ([]domain.Account, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateAccountWithHousehold(ctx context.Context, account domain.Account, household domain.Household) error {
	args := m.Called(ctx, account, household)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, delta, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) MarkReferralBonusAwardedInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, tx, accountID, userID, now)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Mock HouseholdRepository ---

type MockHouseholdRepository struct {
	mock.Mock
}

func (m *MockHouseholdRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockHouseholdRepository) ListHouseholdIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHouseholdRepository) ListAdjustmentsByHousehold(ctx context.Context, householdID string, limit int) ([]domain.HouseholdAdjustment, error) {
	args := m.Called(ctx, householdID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HouseholdAdjustment), args.Error(1)
}

func (m *MockHouseholdRepository) FindHouseholdByIDForUpdate(ctx context.Context, tx pgx.Tx, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, tx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockHouseholdRepository) UpdateHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, householdID, delta, userID, now)
	return args.Error(0)
}

func (m *MockHouseholdRepository) SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, householdID string) (decimal.Decimal, int, error) {
	args := m.Called(ctx, tx, householdID)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

func (m *MockHouseholdRepository) SetHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, total decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, householdID, total, userID, now)
	return args.Error(0)
}

func (m *MockHouseholdRepository) SaveAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.HouseholdAdjustment) error {
	args := m.Called(ctx, tx, adjustment)
	return args.Error(0)
}

func (m *MockHouseholdRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockHouseholdRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockHouseholdRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

var _ portsrepo.HouseholdRepositoryWithTx = (*MockHouseholdRepository)(nil)

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ApplyBalanceChange(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByTimeRange(ctx context.Context, from, to time.Time, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

// --- Mock RewardRepository ---

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) FindItemByID(ctx context.Context, itemID string) (*domain.RedeemableItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemableItem), args.Error(1)
}

func (m *MockRewardRepository) ListItems(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.RedeemableItem, error) {
	args := m.Called(ctx, includeInactive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RedeemableItem), args.Error(1)
}

func (m *MockRewardRepository) SaveItem(ctx context.Context, item domain.RedeemableItem, initial *domain.StockEvent) error {
	args := m.Called(ctx, item, initial)
	return args.Error(0)
}

func (m *MockRewardRepository) UpdateItem(ctx context.Context, item domain.RedeemableItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRewardRepository) DeactivateItem(ctx context.Context, itemID string, userID string, now time.Time) error {
	args := m.Called(ctx, itemID, userID, now)
	return args.Error(0)
}

func (m *MockRewardRepository) AdjustStock(ctx context.Context, event domain.StockEvent) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func (m *MockRewardRepository) FindItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID string) (*domain.RedeemableItem, error) {
	args := m.Called(ctx, tx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemableItem), args.Error(1)
}

func (m *MockRewardRepository) UpdateItemStockInTx(ctx context.Context, tx pgx.Tx, itemID string, newStock int, userID string, now time.Time) error {
	args := m.Called(ctx, tx, itemID, newStock, userID, now)
	return args.Error(0)
}

func (m *MockRewardRepository) InsertStockEventInTx(ctx context.Context, tx pgx.Tx, event domain.StockEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockRewardRepository) ListStockEventsByItem(ctx context.Context, itemID string, limit int) ([]domain.StockEvent, error) {
	args := m.Called(ctx, itemID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockEvent), args.Error(1)
}

var _ portsrepo.RewardRepositoryFacade = (*MockRewardRepository)(nil)

// --- Mock RedemptionRepository ---

type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) CreateRedemption(ctx context.Context, redemption domain.Redemption) (*domain.Redemption, error) {
	args := m.Called(ctx, redemption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) ClaimRedemption(ctx context.Context, redemptionID string, now time.Time) (*domain.Redemption, error) {
	args := m.Called(ctx, redemptionID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) FindRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	args := m.Called(ctx, redemptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) ListRedemptionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Redemption, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var redemptions []domain.Redemption
	if args.Get(0) != nil {
		redemptions = args.Get(0).([]domain.Redemption)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return redemptions, token, args.Error(2)
}

func (m *MockRedemptionRepository) AwardReferralBonus(ctx context.Context, referredAccountID string, bonus decimal.Decimal, actor string, now time.Time) (bool, error) {
	args := m.Called(ctx, referredAccountID, bonus, actor, now)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.RedemptionRepositoryFacade = (*MockRedemptionRepository)(nil)

// --- Mock ReferralService ---

type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) ProcessReferral(ctx context.Context, accountID string, userID string) (bool, error) {
	args := m.Called(ctx, accountID, userID)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.ReferralSvcFacade = (*MockReferralService)(nil)

// --- Mock NotificationDispatcher ---

type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Dispatch(ctx context.Context, n portssvc.Notification) {
	m.Called(ctx, n)
}

var _ portssvc.NotificationDispatcher = (*MockNotificationDispatcher)(nil)
