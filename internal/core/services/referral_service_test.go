package services_test

import (
	"context"
	"testing"

	"github.com/greenpoints/recycle_rewards_app/internal/apperrors"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReferralServiceTestSuite struct {
	suite.Suite
	mockAwarder  *MockRedemptionRepository
	mockNotifier *MockNotificationDispatcher
	service      portssvc.ReferralSvcFacade
	ctx          context.Context
	bonus        decimal.Decimal
}

func (suite *ReferralServiceTestSuite) SetupTest() {
	suite.mockAwarder = new(MockRedemptionRepository)
	suite.mockNotifier = new(MockNotificationDispatcher)
	suite.bonus = decimal.NewFromInt(50)
	suite.service = services.NewReferralService(suite.mockAwarder, suite.bonus, suite.mockNotifier)
	suite.ctx = context.Background()
}

func (suite *ReferralServiceTestSuite) TestProcessReferral_Awarded() {
	accountID := "acc-referred"

	suite.mockAwarder.On("AwardReferralBonus", suite.ctx, accountID,
		mock.MatchedBy(func(b decimal.Decimal) bool { return b.Equal(suite.bonus) }),
		"approver-1", mock.Anything).Return(true, nil).Once()
	suite.mockNotifier.On("Dispatch", suite.ctx, mock.MatchedBy(func(n portssvc.Notification) bool {
		return n.Kind == portssvc.NotifyBonusAwarded && n.AccountID == accountID
	})).Return().Once()

	awarded, err := suite.service.ProcessReferral(suite.ctx, accountID, "approver-1")

	suite.Require().NoError(err)
	suite.True(awarded)
	suite.mockAwarder.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ReferralServiceTestSuite) TestProcessReferral_NothingToAward() {
	accountID := "acc-already-awarded"

	suite.mockAwarder.On("AwardReferralBonus", suite.ctx, accountID, mock.Anything, "approver-1", mock.Anything).
		Return(false, nil).Once()

	awarded, err := suite.service.ProcessReferral(suite.ctx, accountID, "approver-1")

	suite.Require().NoError(err)
	suite.False(awarded)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (suite *ReferralServiceTestSuite) TestProcessReferral_AwarderError() {
	accountID := "acc-referred"

	suite.mockAwarder.On("AwardReferralBonus", suite.ctx, accountID, mock.Anything, "approver-1", mock.Anything).
		Return(false, apperrors.ErrLockTimeout).Once()

	awarded, err := suite.service.ProcessReferral(suite.ctx, accountID, "approver-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLockTimeout)
	suite.False(awarded)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
}

func TestReferralServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReferralServiceTestSuite))
}
