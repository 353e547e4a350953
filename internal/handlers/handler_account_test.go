package handlers_test

import (
	"net/http"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	expected := &domain.Account{AccountID: 10, Code: "1010", Name: "Cash on hand", AccountType: domain.Asset, IsActive: true}
	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.Code == "1010" && req.AccountType == domain.Asset && req.ParentAccountID == nil
		}),
		testUserID,
	).Return(expected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"code":"1010","name":"Cash on hand","accountType":"ASSET"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal(int64(10), res.AccountID)
	suite.Equal(domain.Asset, res.AccountType)
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"code":"1010","name":"Cash","accountType":"CASH"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewDuplicateError("account code already exists", nil)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"code":"1010","name":"Cash on hand","accountType":"ASSET"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("account code already exists", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestGetAccount() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, int64(10)).
		Return(&domain.Account{AccountID: 10, Code: "1010", AccountType: domain.Asset}, nil).Once()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, int64(99)).
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/10", "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts/99", "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("account not found", suite.errorBody(w))

	w = suite.do(http.MethodGet, "/api/v1/accounts/abc", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("invalid accountID", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestListAccounts_PassesFilters() {
	suite.mockAccountService.On("ListAccounts",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListAccountsParams) bool {
			return p.AccountType == "INCOME" && p.ActiveOnly && p.Limit == 5 && p.Offset == 10
		}),
	).Return([]domain.Account{{AccountID: 20, Code: "4010", AccountType: domain.Income}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?type=INCOME&activeOnly=true&limit=5&offset=10", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListAccountsResponse
	suite.decode(w, &res)
	suite.Len(res.Accounts, 1)
	suite.Equal(5, res.Limit)
	suite.Equal(10, res.Offset)
}

func (suite *HandlerTestSuite) TestListAccounts_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/accounts?limit=1000", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccountTree() {
	child := &domain.AccountNode{Account: domain.Account{AccountID: 11, Code: "1011"}, Children: []*domain.AccountNode{}}
	root := &domain.AccountNode{Account: domain.Account{AccountID: 10, Code: "1010"}, Children: []*domain.AccountNode{child}}
	suite.mockAccountService.On("GetAccountTree", mock.Anything).Return([]*domain.AccountNode{root}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/tree", "")

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AccountTreeNodeResponse
	suite.decode(w, &res)
	suite.Require().Len(res, 1)
	suite.Require().Len(res[0].Children, 1)
	suite.Equal(int64(11), res[0].Children[0].AccountID)
}

func (suite *HandlerTestSuite) TestUpdateAccount() {
	name := "Petty cash"
	suite.mockAccountService.On("UpdateAccount",
		mock.Anything,
		int64(10),
		mock.MatchedBy(func(req dto.UpdateAccountRequest) bool {
			return req.Name != nil && *req.Name == name && req.IsActive == nil
		}),
		testUserID,
	).Return(&domain.Account{AccountID: 10, Name: name}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/accounts/10", `{"name":"Petty cash"}`)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, int64(10), testUserID).Return(nil).Once()
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, int64(11), testUserID).
		Return(apperrors.NewValidationError("account %d is already inactive", 11)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/10", "")
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/accounts/11", "")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("account 11 is already inactive", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestGetCurrency_ByIDOrCode() {
	usd := &domain.Currency{CurrencyID: 1, Code: "USD", Symbol: "$", Name: "US Dollar"}
	suite.mockCurrencyService.On("GetCurrencyByID", mock.Anything, int64(1)).Return(usd, nil).Once()
	suite.mockCurrencyService.On("GetCurrencyByCode", mock.Anything, "usd").Return(usd, nil).Once()

	for _, path := range []string{"/api/v1/currencies/1", "/api/v1/currencies/usd"} {
		w := suite.do(http.MethodGet, path, "")
		suite.Equal(http.StatusOK, w.Code, path)
		var res dto.CurrencyResponse
		suite.decode(w, &res)
		suite.Equal("USD", res.Code)
	}
}

func (suite *HandlerTestSuite) TestCreateCurrency_RejectsLowercaseCode() {
	w := suite.do(http.MethodPost, "/api/v1/currencies", `{"code":"usd","symbol":"$","name":"US Dollar"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCurrencyService.AssertNotCalled(suite.T(), "CreateCurrency")
}
