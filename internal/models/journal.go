package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a row of the journals table (the originating books).
type Journal struct {
	JournalID int64  `db:"journal_id"`
	Code      string `db:"code"`
	Name      string `db:"name"`
}

// JournalEntry is a row of the journal_entries table. Lines are loaded separately.
type JournalEntry struct {
	EntryID           int64      `db:"entry_id"`
	Description       string     `db:"description"`
	Reference         string     `db:"reference"`
	EntryDate         time.Time  `db:"entry_date"`
	JournalID         *int64     `db:"journal_id"`
	ReversesEntryID   *int64     `db:"reverses_entry_id"`
	BalancesAppliedAt *time.Time `db:"balances_applied_at"`
	CreatedAt         time.Time  `db:"created_at"`
	CreatedBy         string     `db:"created_by"`
}

// JournalEntryLine is a row of the journal_entry_lines table.
type JournalEntryLine struct {
	LineID     int64           `db:"line_id"`
	EntryID    int64           `db:"entry_id"`
	AccountID  int64           `db:"account_id"`
	CurrencyID int64           `db:"currency_id"`
	Debit      decimal.Decimal `db:"debit"`
	Credit     decimal.Decimal `db:"credit"`
	Memo       string          `db:"memo"`
}

// AccountBalance is a row of the account_balances table.
type AccountBalance struct {
	BalanceID  int64           `db:"balance_id"`
	AccountID  int64           `db:"account_id"`
	CurrencyID int64           `db:"currency_id"`
	Balance    decimal.Decimal `db:"balance"`
	AsOfDate   time.Time       `db:"as_of_date"`
}
