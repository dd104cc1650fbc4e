package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RedemptionServiceTestSuite struct {
	suite.Suite
	mockRedemptionRepo *MockRedemptionRepository
	mockNotifier       *MockNotificationDispatcher
	service            portssvc.RedemptionSvcFacade
	ctx                context.Context
	testUserID         string
}

func (suite *RedemptionServiceTestSuite) SetupTest() {
	suite.mockRedemptionRepo = new(MockRedemptionRepository)
	suite.mockNotifier = new(MockNotificationDispatcher)
	suite.service = services.NewRedemptionService(suite.mockRedemptionRepo, suite.mockNotifier)
	suite.ctx = context.Background()
	suite.testUserID = "resident-1"
}

func (suite *RedemptionServiceTestSuite) TestRedeem_Success() {
	accountID := "acc-1"
	itemID := "item-1"
	completed := &domain.Redemption{
		RedemptionID: "red-1",
		AccountID:    accountID,
		ItemID:       itemID,
		Quantity:     2,
		PointsSpent:  decimal.NewFromInt(240),
	}

	suite.mockRedemptionRepo.On("CreateRedemption", suite.ctx, mock.MatchedBy(func(r domain.Redemption) bool {
		return r.AccountID == accountID &&
			r.ItemID == itemID &&
			r.Quantity == 2 &&
			r.RedemptionID != "" &&
			r.ClaimedAt == nil
	})).Return(completed, nil).Once()
	suite.mockNotifier.On("Dispatch", suite.ctx, mock.MatchedBy(func(n portssvc.Notification) bool {
		return n.Kind == portssvc.NotifyRedeemed && n.AccountID == accountID
	})).Return().Once()

	redemption, err := suite.service.Redeem(suite.ctx, accountID, itemID, 2, suite.testUserID)

	suite.Require().NoError(err)
	suite.True(redemption.PointsSpent.Equal(decimal.NewFromInt(240)))
	suite.mockRedemptionRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *RedemptionServiceTestSuite) TestRedeem_NonPositiveQuantity_Fails() {
	_, err := suite.service.Redeem(suite.ctx, "acc-1", "item-1", 0, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRedemptionRepo.AssertNotCalled(suite.T(), "CreateRedemption", mock.Anything, mock.Anything)
}

func (suite *RedemptionServiceTestSuite) TestRedeem_InsufficientBalance_Fails() {
	suite.mockRedemptionRepo.On("CreateRedemption", suite.ctx, mock.Anything).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	_, err := suite.service.Redeem(suite.ctx, "acc-1", "item-1", 1, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (suite *RedemptionServiceTestSuite) TestRedeem_InsufficientStock_Fails() {
	suite.mockRedemptionRepo.On("CreateRedemption", suite.ctx, mock.Anything).
		Return(nil, apperrors.ErrInsufficientStock).Once()

	_, err := suite.service.Redeem(suite.ctx, "acc-1", "item-1", 5, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (suite *RedemptionServiceTestSuite) TestClaim_Success() {
	claimedAt := time.Now()
	claimed := &domain.Redemption{RedemptionID: "red-1", ClaimedAt: &claimedAt}

	suite.mockRedemptionRepo.On("ClaimRedemption", suite.ctx, "red-1", mock.Anything).
		Return(claimed, nil).Once()

	redemption, err := suite.service.Claim(suite.ctx, "red-1", suite.testUserID)

	suite.Require().NoError(err)
	suite.True(redemption.Claimed())
	suite.mockRedemptionRepo.AssertExpectations(suite.T())
}

func (suite *RedemptionServiceTestSuite) TestClaim_NotFound() {
	suite.mockRedemptionRepo.On("ClaimRedemption", suite.ctx, "missing", mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Claim(suite.ctx, "missing", suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RedemptionServiceTestSuite) TestListRedemptionsByAccount_PassesToken() {
	token := "opaque-token"
	next := "next-token"
	page := []domain.Redemption{{RedemptionID: "red-2"}, {RedemptionID: "red-1"}}

	suite.mockRedemptionRepo.On("ListRedemptionsByAccount", suite.ctx, "acc-1", 2, &token).
		Return(page, &next, nil).Once()

	redemptions, nextToken, err := suite.service.ListRedemptionsByAccount(suite.ctx, "acc-1", 2, &token)

	suite.Require().NoError(err)
	suite.Len(redemptions, 2)
	suite.Require().NotNil(nextToken)
	suite.Equal(next, *nextToken)
}

func TestRedemptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RedemptionServiceTestSuite))
}
