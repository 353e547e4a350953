package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is an originating book (fees, payroll, transfers...). Seeded reference data.
type Journal struct {
	JournalID int64  `json:"journalID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}

// JournalEntry is one balanced financial transaction composed of two or more lines.
// Entries are append-only: corrections are made by posting a reversal.
type JournalEntry struct {
	EntryID           int64              `json:"entryID"`
	Description       string             `json:"description"`
	Reference         string             `json:"reference"` // Client supplied, unique per journal when set
	EntryDate         time.Time          `json:"entryDate"`
	JournalID         *int64             `json:"journalID"`         // Nullable FK -> journals.journal_id
	ReversesEntryID   *int64             `json:"reversesEntryID"`   // Set on reversal entries
	BalancesAppliedAt *time.Time         `json:"balancesAppliedAt"` // NULL until the entry is reflected in account_balances
	CreatedAt         time.Time          `json:"createdAt"`
	CreatedBy         string             `json:"createdBy"`
	Lines             []JournalEntryLine `json:"lines"`
}

// IsReversal reports whether the entry reverses another entry.
func (e JournalEntry) IsReversal() bool {
	return e.ReversesEntryID != nil
}

// BalancesApplied reports whether the entry's deltas are already in the materialized balances.
func (e JournalEntry) BalancesApplied() bool {
	return e.BalancesAppliedAt != nil
}

// JournalEntryLine is a single debit and/or credit against one account in one currency.
type JournalEntryLine struct {
	LineID     int64           `json:"lineID"`
	EntryID    int64           `json:"entryID"`
	AccountID  int64           `json:"accountID"`
	CurrencyID int64           `json:"currencyID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
}

// Delta is the signed effect of the line on its account balance (debit - credit).
func (l JournalEntryLine) Delta() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Key returns the (account, currency) pair the line posts to.
func (l JournalEntryLine) Key() BalanceKey {
	return BalanceKey{AccountID: l.AccountID, CurrencyID: l.CurrencyID}
}

// JournalEntryFilter narrows ListEntries. Zero values mean "no filter".
type JournalEntryFilter struct {
	JournalID *int64
	AccountID *int64
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}
