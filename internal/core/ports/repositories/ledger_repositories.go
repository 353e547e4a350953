package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerLocker serializes postings against full recomputation.
type LedgerLocker interface {
	// AcquirePostingLock takes the ledger lock in shared mode until the transaction ends.
	// Postings hold it shared so they run concurrently with each other.
	AcquirePostingLock(ctx context.Context) error

	// AcquireMaintenanceLock takes the ledger lock in exclusive mode until the transaction ends.
	AcquireMaintenanceLock(ctx context.Context) error
}

// EntryTxStore reads and writes entries inside a transaction.
type EntryTxStore interface {
	// FindAccountsByIDsForShare loads and share-locks accounts so they cannot be deactivated mid-posting.
	FindAccountsByIDsForShare(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error)

	// FindCurrenciesByIDs loads currencies. Missing IDs are absent from the map.
	FindCurrenciesByIDs(ctx context.Context, currencyIDs []int64) (map[int64]domain.Currency, error)

	// FindJournalByID loads a book.
	FindJournalByID(ctx context.Context, journalID int64) (*domain.Journal, error)

	// InsertJournalEntry persists the header and lines and sets the generated IDs on both.
	// A (journal, reference) collision returns ErrDuplicate.
	InsertJournalEntry(ctx context.Context, entry *domain.JournalEntry) error

	// FindJournalEntryForUpdate loads and locks an entry header and its lines.
	FindJournalEntryForUpdate(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// FindReversalOf returns the ID of the entry reversing entryID, or nil.
	FindReversalOf(ctx context.Context, entryID int64) (*int64, error)

	// FindUnappliedEntryIDs returns up to limit entries whose balances are not applied, oldest first.
	FindUnappliedEntryIDs(ctx context.Context, limit int) ([]int64, error)

	// MarkBalancesApplied stamps balances_applied_at on the given entries.
	MarkBalancesApplied(ctx context.Context, entryIDs []int64, at time.Time) error

	// MarkAllBalancesApplied stamps every entry that is not applied yet.
	MarkAllBalancesApplied(ctx context.Context, at time.Time) (int64, error)
}

// BalanceTxStore maintains materialized balances inside a transaction.
type BalanceTxStore interface {
	// LockBalances row-locks the existing balance rows of keys, in the given order.
	// Keys without a row are absent from the result.
	LockBalances(ctx context.Context, keys []domain.BalanceKey) (map[domain.BalanceKey]domain.AccountBalance, error)

	// UpdateBalance overwrites balance and as-of date of a locked row.
	UpdateBalance(ctx context.Context, balance domain.AccountBalance) error

	// AddToBalance creates the row with delta, or adds delta to a row created concurrently.
	AddToBalance(ctx context.Context, key domain.BalanceKey, delta decimal.Decimal, asOf time.Time) error

	// ListAllBalances returns every balance row ordered by key.
	ListAllBalances(ctx context.Context) ([]domain.AccountBalance, error)

	// DeleteAllBalances removes every balance row and returns the count.
	DeleteAllBalances(ctx context.Context) (int64, error)

	// SumLinesByAccountCurrency aggregates all lines per (account, currency).
	SumLinesByAccountCurrency(ctx context.Context) ([]domain.LineTotal, error)

	// InsertBalances bulk inserts fresh rows and returns the count.
	InsertBalances(ctx context.Context, balances []domain.AccountBalance) (int64, error)
}

// LedgerTx is the set of operations available inside a ledger transaction.
type LedgerTx interface {
	LedgerLocker
	EntryTxStore
	BalanceTxStore
}
