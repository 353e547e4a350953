package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/core/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo, services.WithClock(fixedClock))
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateCurrencyRequest{Code: "kes", Symbol: "KSh", Name: "Kenyan Shilling"}

	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Code == "KES" && c.Symbol == "KSh" && c.CreatedBy == creatorUserID && c.CreatedAt.Equal(fixedNow)
	})).Return(func(_ context.Context, c domain.Currency) *domain.Currency {
		c.CurrencyID = 3
		return &c
	}, nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal(int64(3), currency.CurrencyID)
	suite.Equal("KES", currency.Code)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_InvalidCode() {
	for _, code := range []string{"", "US", "USDT", "U$D"} {
		_, err := suite.service.CreateCurrency(context.Background(), dto.CreateCurrencyRequest{Code: code, Symbol: "$", Name: "x"}, "user-1")
		suite.ErrorIs(err, apperrors.ErrValidation, code)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	ctx := context.Background()
	suite.mockRepo.On("SaveCurrency", ctx, mock.Anything).
		Return(nil, apperrors.NewDuplicateError("currency code already exists", nil)).Once()

	_, err := suite.service.CreateCurrency(ctx, dto.CreateCurrencyRequest{Code: "USD", Symbol: "$", Name: "US Dollar"}, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_UpperCases() {
	ctx := context.Background()
	expected := &domain.Currency{CurrencyID: 1, Code: "USD"}
	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(expected, nil).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "usd")

	suite.Require().NoError(err)
	suite.Equal(expected, currency)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByID_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("FindCurrencyByID", ctx, int64(1)).Return(nil, assert.AnError).Once()

	_, err := suite.service.GetCurrencyByID(ctx, 1)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_EmptyIsNotNil() {
	ctx := context.Background()
	suite.mockRepo.On("ListCurrencies", ctx).Return(nil, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.NotNil(currencies)
	suite.Empty(currencies)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
