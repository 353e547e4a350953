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

const tuitionEntryBody = `{
	"description": "Tuition fee payment",
	"reference": "RCPT-1001",
	"entryDate": "2024-09-01T00:00:00Z",
	"journalID": 1,
	"lines": [
		{"accountID": 10, "currencyID": 1, "debit": "500.00", "memo": "cash"},
		{"accountID": 20, "currencyID": 1, "credit": "500.00"}
	]
}`

func postedTuitionEntry() *domain.JournalEntry {
	journalID := int64(1)
	return &domain.JournalEntry{
		EntryID:     42,
		Description: "Tuition fee payment",
		Reference:   "RCPT-1001",
		EntryDate:   time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		JournalID:   &journalID,
		CreatedBy:   testUserID,
		Lines: []domain.JournalEntryLine{
			{LineID: 1, EntryID: 42, AccountID: 10, CurrencyID: 1, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
			{LineID: 2, EntryID: 42, AccountID: 20, CurrencyID: 1, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		},
	}
}

func (suite *HandlerTestSuite) TestPostEntry_Success() {
	suite.mockJournalService.On("PostEntry",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateJournalEntryRequest) bool {
			return len(req.Lines) == 2 &&
				req.Lines[0].Debit.Equal(decimal.NewFromInt(500)) &&
				req.Lines[0].Credit.IsZero() &&
				req.Lines[1].Credit.Equal(decimal.NewFromInt(500)) &&
				req.Reference == "RCPT-1001" &&
				req.JournalID != nil && *req.JournalID == 1
		}),
		testUserID,
	).Return(postedTuitionEntry(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", tuitionEntryBody)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Equal(int64(42), res.EntryID)
	suite.Require().Len(res.Lines, 2)
	suite.True(decimal.NewFromInt(500).Equal(res.Lines[0].Debit))
}

func (suite *HandlerTestSuite) TestPostEntry_Unbalanced() {
	suite.mockJournalService.On("PostEntry", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewValidationError("entry does not balance for currency 1: debits sum is 500 and credits sum is 499.99")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", tuitionEntryBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w), "does not balance")
}

func (suite *HandlerTestSuite) TestPostEntry_DuplicateReference() {
	suite.mockJournalService.On("PostEntry", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewDuplicateError("reference RCPT-1001 already posted", nil)).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", tuitionEntryBody)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestPostEntry_StorageFailureHidesCause() {
	suite.mockJournalService.On("PostEntry", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewStorageError("failed to insert journal entry", assertErr("connection reset"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", tuitionEntryBody)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to post journal entry", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestPostEntry_RejectedByBinding() {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "negative debit",
			body: `{"description":"x","entryDate":"2024-09-01T00:00:00Z","lines":[
				{"accountID":10,"currencyID":1,"debit":"-5"},{"accountID":20,"currencyID":1,"credit":"-5"}]}`,
		},
		{
			name: "sub-cent amount",
			body: `{"description":"x","entryDate":"2024-09-01T00:00:00Z","lines":[
				{"accountID":10,"currencyID":1,"debit":"1.005"},{"accountID":20,"currencyID":1,"credit":"1.005"}]}`,
		},
		{
			name: "single line",
			body: `{"description":"x","entryDate":"2024-09-01T00:00:00Z","lines":[
				{"accountID":10,"currencyID":1,"debit":"0"}]}`,
		},
		{
			name: "missing account",
			body: `{"description":"x","entryDate":"2024-09-01T00:00:00Z","lines":[
				{"currencyID":1,"debit":"1"},{"accountID":20,"currencyID":1,"credit":"1"}]}`,
		},
		{
			name: "missing description",
			body: `{"entryDate":"2024-09-01T00:00:00Z","lines":[
				{"accountID":10,"currencyID":1,"debit":"1"},{"accountID":20,"currencyID":1,"credit":"1"}]}`,
		},
		{
			name: "malformed amount",
			body: `{"description":"x","entryDate":"2024-09-01T00:00:00Z","lines":[
				{"accountID":10,"currencyID":1,"debit":"ten"},{"accountID":20,"currencyID":1,"credit":"10"}]}`,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/journal-entries", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *HandlerTestSuite) TestPostEntries_Batch() {
	entry := postedTuitionEntry()
	suite.mockJournalService.On("PostEntries",
		mock.Anything,
		mock.MatchedBy(func(reqs []dto.CreateJournalEntryRequest) bool { return len(reqs) == 2 }),
		testUserID,
	).Return([]domain.JournalEntry{*entry, *entry}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/batch", `{"entries":[`+tuitionEntryBody+`,`+tuitionEntryBody+`]}`)

	suite.Equal(http.StatusCreated, w.Code)
	var res []dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Len(res, 2)
}

func (suite *HandlerTestSuite) TestGetEntry_NotFound() {
	suite.mockJournalService.On("GetEntry", mock.Anything, int64(404)).
		Return(nil, apperrors.NewNotFoundError("journal entry not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries/404", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListEntries_PassesFilters() {
	next := "token-2"
	suite.mockJournalService.On("ListEntries",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
			return p.AccountID != nil && *p.AccountID == 10 &&
				p.JournalID == nil &&
				p.Limit == 5 &&
				p.From.Format(time.DateOnly) == "2024-09-01" &&
				p.NextToken == "token-1"
		}),
	).Return(&dto.ListJournalEntriesResponse{Entries: []dto.JournalEntryResponse{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?accountID=10&limit=5&from=2024-09-01&nextToken=token-1", "")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListJournalEntriesResponse
	suite.decode(w, &res)
	suite.Require().NotNil(res.NextToken)
	suite.Equal(next, *res.NextToken)
}

func (suite *HandlerTestSuite) TestReverseEntry_WithoutBody() {
	reversal := postedTuitionEntry()
	reversal.EntryID = 43
	original := int64(42)
	reversal.ReversesEntryID = &original
	suite.mockJournalService.On("ReverseEntry", mock.Anything, int64(42), dto.ReverseJournalEntryRequest{}, testUserID).
		Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/42/reverse", "")

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Require().NotNil(res.ReversesEntryID)
	suite.Equal(int64(42), *res.ReversesEntryID)
}

func (suite *HandlerTestSuite) TestReverseEntry_AlreadyReversed() {
	suite.mockJournalService.On("ReverseEntry",
		mock.Anything,
		int64(42),
		mock.MatchedBy(func(req dto.ReverseJournalEntryRequest) bool {
			return req.Description != nil && *req.Description == "Refund"
		}),
		testUserID,
	).Return(nil, apperrors.NewConflictError("entry 42 is already reversed")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/42/reverse", `{"description":"Refund"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("entry 42 is already reversed", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestListJournals() {
	suite.mockJournalService.On("ListJournals", mock.Anything).
		Return([]domain.Journal{{JournalID: 1, Code: "GEN", Name: "General"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals", "")

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.JournalResponse
	suite.decode(w, &res)
	suite.Equal([]dto.JournalResponse{{JournalID: 1, Code: "GEN", Name: "General"}}, res)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
