package dto

import (
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryLineRequest is one debit and/or credit of a posting request.
type JournalEntryLineRequest struct {
	AccountID  int64           `json:"accountID" binding:"required,gt=0"`
	CurrencyID int64           `json:"currencyID" binding:"required,gt=0"`
	Debit      decimal.Decimal `json:"debit" binding:"dgte0,money"`
	Credit     decimal.Decimal `json:"credit" binding:"dgte0,money"`
	Memo       string          `json:"memo" binding:"max=255"`
}

// CreateJournalEntryRequest defines the data needed to post a journal entry.
type CreateJournalEntryRequest struct {
	Description string                    `json:"description" binding:"required,max=500"`
	Reference   string                    `json:"reference" binding:"max=100"` // Optional client reference, de-duplicated per journal
	EntryDate   time.Time                 `json:"entryDate" binding:"required"`
	JournalID   *int64                    `json:"journalID" binding:"omitempty,gt=0"`
	Lines       []JournalEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// PostJournalEntriesRequest posts several entries atomically.
type PostJournalEntriesRequest struct {
	Entries []CreateJournalEntryRequest `json:"entries" binding:"required,min=1,max=100,dive"`
}

// ReverseJournalEntryRequest holds the optional overrides of a reversal.
type ReverseJournalEntryRequest struct {
	EntryDate   *time.Time `json:"entryDate"`   // Defaults to today
	Description *string    `json:"description"` // Defaults to "Reversal of entry <id>"
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	JournalID *int64    `form:"journalID" binding:"omitempty,gt=0"`
	AccountID *int64    `form:"accountID" binding:"omitempty,gt=0"`
	From      time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To        time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit     int       `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string    `form:"nextToken"`
}

// JournalEntryLineResponse defines the data returned for a journal entry line.
type JournalEntryLineResponse struct {
	LineID     int64           `json:"lineID"`
	AccountID  int64           `json:"accountID"`
	CurrencyID int64           `json:"currencyID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           int64                      `json:"entryID"`
	Description       string                     `json:"description"`
	Reference         string                     `json:"reference"`
	EntryDate         time.Time                  `json:"entryDate"`
	JournalID         *int64                     `json:"journalID"`
	ReversesEntryID   *int64                     `json:"reversesEntryID"`
	BalancesAppliedAt *time.Time                 `json:"balancesAppliedAt"`
	CreatedAt         time.Time                  `json:"createdAt"`
	CreatedBy         string                     `json:"createdBy"`
	Lines             []JournalEntryLineResponse `json:"lines"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken"`
}

// JournalResponse defines the data returned for a book.
type JournalResponse struct {
	JournalID int64  `json:"journalID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalEntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalEntryLineResponse{
			LineID:     l.LineID,
			AccountID:  l.AccountID,
			CurrencyID: l.CurrencyID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Memo:       l.Memo,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		Description:       e.Description,
		Reference:         e.Reference,
		EntryDate:         e.EntryDate,
		JournalID:         e.JournalID,
		ReversesEntryID:   e.ReversesEntryID,
		BalancesAppliedAt: e.BalancesAppliedAt,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		Lines:             lines,
	}
}

// ToJournalEntryResponses converts a slice of domain.JournalEntry.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

// ToJournalResponses converts books.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	res := make([]JournalResponse, len(journals))
	for i, j := range journals {
		res[i] = JournalResponse{JournalID: j.JournalID, Code: j.Code, Name: j.Name}
	}
	return res
}
