package pgsql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeTx is an in-memory pgx.Tx that records every statement it sees, so
// tests can assert what a transaction wrote and whether it committed.
type fakeTx struct {
	commits      int
	rollbacks    int
	execSQL      []string
	execArgs     [][]any
	execErr      error
	execErrOn    string // when set, execErr fires only for SQL containing it
	queryRowSQL  []string
	queryRowArgs [][]any
	row          pgx.Row
}

var _ pgx.Tx = (*fakeTx)(nil)

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.commits++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	if t.commits > 0 {
		return pgx.ErrTxClosed
	}
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	t.execArgs = append(t.execArgs, arguments)
	if t.execErr != nil && (t.execErrOn == "" || strings.Contains(sql, t.execErrOn)) {
		return pgconn.CommandTag{}, t.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query: " + sql)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.queryRowSQL = append(t.queryRowSQL, sql)
	t.queryRowArgs = append(t.queryRowArgs, args)
	if t.row != nil {
		return t.row
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("unexpected CopyFrom")
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Conn() *pgx.Conn { return nil }

// fakeRow hands back preset values through Scan.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if i >= len(r.values) {
			break
		}
		switch v := d.(type) {
		case *decimal.Decimal:
			*v = r.values[i].(decimal.Decimal)
		case *int:
			*v = r.values[i].(int)
		case *string:
			*v = r.values[i].(string)
		}
	}
	return nil
}

// fakePool hands out a fresh fakeTx per Begin and keeps them all, so tests
// can count commits across retried transactions.
type fakePool struct {
	txs       []*fakeTx
	beginErr  error
	txExecErr error
	txErrOn   string
}

var _ DBPool = (*fakePool)(nil)

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	tx := &fakeTx{execErr: p.txExecErr, execErrOn: p.txErrOn}
	p.txs = append(p.txs, tx)
	return tx, nil
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected pool Query: " + sql)
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: pgx.ErrNoRows}
}

func (p *fakePool) commits() int {
	n := 0
	for _, tx := range p.txs {
		n += tx.commits
	}
	return n
}

func (p *fakePool) rollbacks() int {
	n := 0
	for _, tx := range p.txs {
		n += tx.rollbacks
	}
	return n
}

// MockAccountFacade is a mock implementation of portsrepo.AccountRepositoryFacade
type MockAccountFacade struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountFacade)(nil)

func (m *MockAccountFacade) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountFacade) FindAccountByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountFacade) ListAccountsByHousehold(ctx context.Context, householdID string) ([]domain.Account, error) {
	args := m.Called(ctx, householdID)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountFacade) CreateAccountWithHousehold(ctx context.Context, account domain.Account, household domain.Household) error {
	args := m.Called(ctx, account, household)
	return args.Error(0)
}

func (m *MockAccountFacade) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountFacade) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountFacade) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountFacade) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, delta, userID, now)
	return args.Error(0)
}

func (m *MockAccountFacade) MarkReferralBonusAwardedInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, tx, accountID, userID, now)
	return args.Bool(0), args.Error(1)
}

// MockHouseholdFacade is a mock implementation of portsrepo.HouseholdRepositoryFacade
type MockHouseholdFacade struct {
	mock.Mock
}

var _ portsrepo.HouseholdRepositoryFacade = (*MockHouseholdFacade)(nil)

func (m *MockHouseholdFacade) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, householdID)
	var household *domain.Household
	if args.Get(0) != nil {
		household = args.Get(0).(*domain.Household)
	}
	return household, args.Error(1)
}

func (m *MockHouseholdFacade) ListHouseholdIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockHouseholdFacade) ListAdjustmentsByHousehold(ctx context.Context, householdID string, limit int) ([]domain.HouseholdAdjustment, error) {
	args := m.Called(ctx, householdID, limit)
	var adjustments []domain.HouseholdAdjustment
	if args.Get(0) != nil {
		adjustments = args.Get(0).([]domain.HouseholdAdjustment)
	}
	return adjustments, args.Error(1)
}

func (m *MockHouseholdFacade) FindHouseholdByIDForUpdate(ctx context.Context, tx pgx.Tx, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, tx, householdID)
	var household *domain.Household
	if args.Get(0) != nil {
		household = args.Get(0).(*domain.Household)
	}
	return household, args.Error(1)
}

func (m *MockHouseholdFacade) UpdateHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, householdID, delta, userID, now)
	return args.Error(0)
}

func (m *MockHouseholdFacade) SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, householdID string) (decimal.Decimal, int, error) {
	args := m.Called(ctx, tx, householdID)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

func (m *MockHouseholdFacade) SetHouseholdTotalInTx(ctx context.Context, tx pgx.Tx, householdID string, total decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, householdID, total, userID, now)
	return args.Error(0)
}

func (m *MockHouseholdFacade) SaveAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.HouseholdAdjustment) error {
	args := m.Called(ctx, tx, adjustment)
	return args.Error(0)
}

// MockLedgerFacade is a mock implementation of portsrepo.LedgerRepositoryFacade
type MockLedgerFacade struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerFacade)(nil)

func (m *MockLedgerFacade) ApplyBalanceChange(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerFacade) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerFacade) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
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

func (m *MockLedgerFacade) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, referenceID)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerFacade) FindEntriesByTimeRange(ctx context.Context, from, to time.Time, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, from, to, limit)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerFacade) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockRewardFacade is a mock implementation of portsrepo.RewardRepositoryFacade
type MockRewardFacade struct {
	mock.Mock
}

var _ portsrepo.RewardRepositoryFacade = (*MockRewardFacade)(nil)

func (m *MockRewardFacade) FindItemByID(ctx context.Context, itemID string) (*domain.RedeemableItem, error) {
	args := m.Called(ctx, itemID)
	var item *domain.RedeemableItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.RedeemableItem)
	}
	return item, args.Error(1)
}

func (m *MockRewardFacade) ListItems(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.RedeemableItem, error) {
	args := m.Called(ctx, includeInactive, limit, offset)
	var items []domain.RedeemableItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.RedeemableItem)
	}
	return items, args.Error(1)
}

func (m *MockRewardFacade) SaveItem(ctx context.Context, item domain.RedeemableItem, initial *domain.StockEvent) error {
	args := m.Called(ctx, item, initial)
	return args.Error(0)
}

func (m *MockRewardFacade) UpdateItem(ctx context.Context, item domain.RedeemableItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRewardFacade) DeactivateItem(ctx context.Context, itemID string, userID string, now time.Time) error {
	args := m.Called(ctx, itemID, userID, now)
	return args.Error(0)
}

func (m *MockRewardFacade) AdjustStock(ctx context.Context, event domain.StockEvent) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func (m *MockRewardFacade) FindItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID string) (*domain.RedeemableItem, error) {
	args := m.Called(ctx, tx, itemID)
	var item *domain.RedeemableItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.RedeemableItem)
	}
	return item, args.Error(1)
}

func (m *MockRewardFacade) UpdateItemStockInTx(ctx context.Context, tx pgx.Tx, itemID string, newStock int, userID string, now time.Time) error {
	args := m.Called(ctx, tx, itemID, newStock, userID, now)
	return args.Error(0)
}

func (m *MockRewardFacade) InsertStockEventInTx(ctx context.Context, tx pgx.Tx, event domain.StockEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockRewardFacade) ListStockEventsByItem(ctx context.Context, itemID string, limit int) ([]domain.StockEvent, error) {
	args := m.Called(ctx, itemID, limit)
	var events []domain.StockEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.StockEvent)
	}
	return events, args.Error(1)
}
