package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestGetBalance_Current() {
	suite.mockBalanceService.On("GetBalance", mock.Anything, int64(10), int64(1)).
		Return(decimal.RequireFromString("1250.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/10/balances/1", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.decode(w, &res)
	suite.True(decimal.RequireFromString("1250.50").Equal(res.Balance))
	suite.Nil(res.AsOfDate)
	suite.mockBalanceService.AssertNotCalled(suite.T(), "GetBalanceAsOf")
}

func (suite *HandlerTestSuite) TestGetBalance_AsOf() {
	asOf := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	suite.mockBalanceService.On("GetBalanceAsOf",
		mock.Anything, int64(10), int64(1),
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) }),
	).Return(decimal.NewFromInt(500), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/10/balances/1?asOf=2024-09-30", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.decode(w, &res)
	suite.True(decimal.NewFromInt(500).Equal(res.Balance))
	suite.Require().NotNil(res.AsOfDate)
	suite.True(asOf.Equal(*res.AsOfDate))
}

func (suite *HandlerTestSuite) TestGetBalance_BadAsOf() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/10/balances/1?asOf=30-09-2024", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetBalance_UnknownAccount() {
	suite.mockBalanceService.On("GetBalance", mock.Anything, int64(99), int64(1)).
		Return(decimal.Zero, apperrors.NewNotFoundError("account not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/99/balances/1", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListAccountBalances() {
	asOf := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	suite.mockBalanceService.On("ListAccountBalances", mock.Anything, int64(10)).Return([]domain.AccountBalance{
		{AccountID: 10, CurrencyID: 1, Balance: decimal.NewFromInt(500), AsOfDate: asOf},
		{AccountID: 10, CurrencyID: 2, Balance: decimal.NewFromInt(-90), AsOfDate: asOf},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/10/balances", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListAccountBalancesResponse
	suite.decode(w, &res)
	suite.Equal(int64(10), res.AccountID)
	suite.Require().Len(res.Balances, 2)
	suite.True(decimal.NewFromInt(-90).Equal(res.Balances[1].Balance))
}

func (suite *HandlerTestSuite) TestApplyEntry_AlreadyApplied() {
	suite.mockBalanceService.On("ApplyEntry", mock.Anything, int64(42)).Return(false, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/42/apply", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ApplyEntryResponse
	suite.decode(w, &res)
	suite.Equal(dto.ApplyEntryResponse{EntryID: 42, Applied: false}, res)
}

func (suite *HandlerTestSuite) TestApplyPending() {
	suite.mockBalanceService.On("ApplyPendingEntries", mock.Anything, 0).Return(3, nil).Once()
	suite.mockBalanceService.On("ApplyPendingEntries", mock.Anything, 50).Return(1, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/balances/apply-pending", "")
	suite.Equal(http.StatusOK, w.Code)
	var res dto.ApplyPendingResponse
	suite.decode(w, &res)
	suite.Equal(3, res.Applied)

	w = suite.do(http.MethodPost, "/api/v1/admin/balances/apply-pending", `{"limit":50}`)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/admin/balances/apply-pending", `{"limit":-1}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRecomputeBalances() {
	suite.mockBalanceService.On("RecomputeBalances", mock.Anything).
		Return(&domain.RecomputeResult{Deleted: 4, Inserted: 3, Duration: 1500 * time.Millisecond}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/balances/recompute", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.RecomputeBalancesResponse
	suite.decode(w, &res)
	suite.Equal(dto.RecomputeBalancesResponse{Deleted: 4, Inserted: 3, DurationMs: 1500}, res)
}

func (suite *HandlerTestSuite) TestVerifyBalances_ReportsDrift() {
	suite.mockBalanceService.On("VerifyBalances", mock.Anything).Return([]domain.BalanceDrift{{
		BalanceKey:   domain.BalanceKey{AccountID: 10, CurrencyID: 1},
		Materialized: decimal.NewFromInt(400),
		Expected:     decimal.NewFromInt(500),
	}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/admin/balances/verify", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.VerifyBalancesResponse
	suite.decode(w, &res)
	suite.False(res.Consistent)
	suite.Require().Len(res.Drifts, 1)
	suite.Equal(int64(10), res.Drifts[0].AccountID)
}

func (suite *HandlerTestSuite) TestVerifyBalances_Consistent() {
	suite.mockBalanceService.On("VerifyBalances", mock.Anything).Return([]domain.BalanceDrift{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/admin/balances/verify", "")

	var res dto.VerifyBalancesResponse
	suite.decode(w, &res)
	suite.True(res.Consistent)
	suite.Empty(res.Drifts)
}

func (suite *HandlerTestSuite) TestTrialBalance() {
	tb := &domain.TrialBalance{
		CurrencyID: 1,
		Rows: []domain.TrialBalanceRow{
			{AccountID: 10, AccountCode: "1010", AccountType: domain.Asset, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
			{AccountID: 20, AccountCode: "4010", AccountType: domain.Income, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		},
		TotalDebit:  decimal.NewFromInt(500),
		TotalCredit: decimal.NewFromInt(500),
	}
	suite.mockBalanceService.On("TrialBalance", mock.Anything, int64(1)).Return(tb, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?currencyID=1", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.TrialBalanceResponse
	suite.decode(w, &res)
	suite.True(res.Balanced)
	suite.Len(res.Rows, 2)
	suite.Equal("ASSET", res.Rows[0].AccountType)
}

func (suite *HandlerTestSuite) TestTrialBalance_RequiresCurrency() {
	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBalanceService.AssertNotCalled(suite.T(), "TrialBalance")
}
