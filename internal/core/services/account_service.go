package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portsrepo "github.com/greenpoints/recycle_rewards_app/internal/core/ports/repositories"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
	"github.com/greenpoints/recycle_rewards_app/internal/utils"
	"github.com/greenpoints/recycle_rewards_app/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	referralCodeLength = 8
	// Referral codes collide rarely at this length, but the unique index can
	// still reject one. Regenerate a few times before giving up.
	referralCodeAttempts = 3
)

type AccountService struct {
	accountRepo   portsrepo.AccountRepositoryFacade
	householdRepo portsrepo.HouseholdRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	referralSvc   portssvc.ReferralSvcFacade
	notifier      portssvc.NotificationDispatcher
}

func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	householdRepo portsrepo.HouseholdRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	referralSvc portssvc.ReferralSvcFacade,
	notifier portssvc.NotificationDispatcher,
) *AccountService {
	return &AccountService{
		accountRepo:   accountRepo,
		householdRepo: householdRepo,
		ledgerRepo:    ledgerRepo,
		referralSvc:   referralSvc,
		notifier:      notifier,
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// RegisterAccount creates a pending account with a fresh referral code. A new
// household is created unless the request joins an existing one.
func (s *AccountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	if req.ReferredByCode != nil {
		if _, err := s.accountRepo.FindAccountByReferralCode(ctx, *req.ReferredByCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown referral code", apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	joinExisting := req.HouseholdID != nil && *req.HouseholdID != ""
	householdID := uuid.NewString()
	if joinExisting {
		household, err := s.householdRepo.FindHouseholdByID(ctx, *req.HouseholdID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("household %s: %w", *req.HouseholdID, apperrors.ErrNotFound)
			}
			return nil, err
		}
		if household.Status != domain.HouseholdActive {
			return nil, fmt.Errorf("%w: household %s is archived", apperrors.ErrValidation, household.HouseholdID)
		}
		householdID = household.HouseholdID
	}

	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := utils.GenerateReferralCode(referralCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate referral code: %w", err)
		}

		account := domain.Account{
			AccountID:      uuid.NewString(),
			HouseholdID:    householdID,
			Name:           req.Name,
			Status:         domain.AccountPending,
			Balance:        decimal.Zero,
			ReferralCode:   code,
			ReferredByCode: req.ReferredByCode,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		if joinExisting {
			err = s.accountRepo.SaveAccount(ctx, account)
		} else {
			householdName := req.HouseholdName
			if householdName == "" {
				householdName = req.Name
			}
			household := domain.Household{
				HouseholdID: householdID,
				Name:        householdName,
				Status:      domain.HouseholdActive,
				TotalPoints: decimal.Zero,
				MemberCount: 1,
				AuditFields: account.AuditFields,
			}
			err = s.accountRepo.CreateAccountWithHousehold(ctx, account, household)
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				logger.Warn("Referral code collision, regenerating", slog.Int("attempt", attempt+1))
				continue
			}
			logger.Error("Failed to save account", slog.String("error", err.Error()))
			return nil, err
		}

		logger.Info("Account registered",
			slog.String("account_id", account.AccountID),
			slog.String("household_id", account.HouseholdID))
		return &account, nil
	}
	return nil, apperrors.NewAppError(500, "could not assign a unique referral code", apperrors.ErrDuplicate)
}

// ApproveAccount transitions a pending account to approved and triggers
// referral processing. Re-approving an approved account is a no-op that still
// retries the referral award, so a crash between the two steps heals itself.
func (s *AccountService) ApproveAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	switch account.Status {
	case domain.AccountRejected:
		return nil, fmt.Errorf("%w: account %s is rejected", apperrors.ErrValidation, accountID)
	case domain.AccountPending:
		now := time.Now()
		if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, domain.AccountApproved, userID, now); err != nil {
			return nil, err
		}
		account.Status = domain.AccountApproved
		account.LastUpdatedAt = now
		account.LastUpdatedBy = userID
	}

	if account.ReferredByCode != nil {
		if _, err := s.referralSvc.ProcessReferral(ctx, accountID, userID); err != nil {
			// The approval itself committed; the award is retried on the next
			// approval call or left for the operator.
			logger.Error("Referral processing failed after approval",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()))
		}
	}
	return account, nil
}

// RejectAccount transitions a pending account to rejected.
func (s *AccountService) RejectAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountPending {
		return nil, fmt.Errorf("%w: only pending accounts can be rejected", apperrors.ErrValidation)
	}
	now := time.Now()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, domain.AccountRejected, userID, now); err != nil {
		return nil, err
	}
	account.Status = domain.AccountRejected
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID
	return account, nil
}

// GetAccountByID retrieves a specific account by its unique identifier.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetBalance retrieves the current point balance of an account.
func (s *AccountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetHousehold retrieves a household aggregate.
func (s *AccountService) GetHousehold(ctx context.Context, householdID string) (*domain.Household, error) {
	return s.householdRepo.FindHouseholdByID(ctx, householdID)
}

// ListHouseholdMembers retrieves all member accounts of a household.
func (s *AccountService) ListHouseholdMembers(ctx context.Context, householdID string) ([]domain.Account, error) {
	if _, err := s.householdRepo.FindHouseholdByID(ctx, householdID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccountsByHousehold(ctx, householdID)
}

// ListHouseholdAdjustments retrieves the drift corrections recorded for a
// household, newest first.
func (s *AccountService) ListHouseholdAdjustments(ctx context.Context, householdID string, limit int) ([]domain.HouseholdAdjustment, error) {
	if _, err := s.householdRepo.FindHouseholdByID(ctx, householdID); err != nil {
		return nil, err
	}
	return s.householdRepo.ListAdjustmentsByHousehold(ctx, householdID, limit)
}

// Credit increases an account balance and writes the matching ledger entry.
func (s *AccountService) Credit(ctx context.Context, accountID string, amount decimal.Decimal, description, referenceID, userID string) (decimal.Decimal, error) {
	newBalance, err := s.applyChange(ctx, accountID, domain.Earned, amount, description, referenceID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	metrics.PointsCredited.Inc()
	s.notifier.Dispatch(ctx, portssvc.Notification{
		Kind:      portssvc.NotifyPointsCredited,
		AccountID: accountID,
		Message:   fmt.Sprintf("%s points credited: %s", amount.String(), description),
	})
	return newBalance, nil
}

// Debit decreases an account balance, all-or-nothing.
func (s *AccountService) Debit(ctx context.Context, accountID string, amount decimal.Decimal, description, referenceID, userID string) (decimal.Decimal, error) {
	newBalance, err := s.applyChange(ctx, accountID, domain.Redeemed, amount, description, referenceID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	metrics.PointsDebited.Inc()
	s.notifier.Dispatch(ctx, portssvc.Notification{
		Kind:      portssvc.NotifyPointsDebited,
		AccountID: accountID,
		Message:   fmt.Sprintf("%s points debited: %s", amount.String(), description),
	})
	return newBalance, nil
}

func (s *AccountService) applyChange(ctx context.Context, accountID string, kind domain.EntryKind, amount decimal.Decimal, description, referenceID, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	now := time.Now()
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		ReferenceID: referenceID,
		CreatedAt:   now,
		CreatedBy:   userID,
	}

	newBalance, err := s.ledgerRepo.ApplyBalanceChange(ctx, entry)
	if err != nil {
		logger.Warn("Balance change rejected",
			slog.String("account_id", accountID),
			slog.String("kind", string(kind)),
			slog.String("amount", amount.String()),
			slog.String("error", err.Error()))
		return decimal.Zero, err
	}

	logger.Info("Balance changed",
		slog.String("account_id", accountID),
		slog.String("entry_id", entry.EntryID),
		slog.String("kind", string(kind)),
		slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}
