package services

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceMaintainerSvc keeps the materialized balances in sync with the lines.
type BalanceMaintainerSvc interface {
	// ApplyEntry applies the deltas of an already persisted entry.
	// It reports false when the entry had already been applied.
	ApplyEntry(ctx context.Context, entryID int64) (bool, error)

	// ApplyPendingEntries applies up to limit entries whose balances were never applied.
	ApplyPendingEntries(ctx context.Context, limit int) (int, error)

	// RecomputeBalances rebuilds every balance row from the full line history.
	RecomputeBalances(ctx context.Context) (*domain.RecomputeResult, error)

	// VerifyBalances lists the pairs whose materialized balance disagrees with the lines.
	VerifyBalances(ctx context.Context) ([]domain.BalanceDrift, error)
}

// BalanceQuerySvc answers balance questions.
type BalanceQuerySvc interface {
	// GetBalance returns the current balance of a pair, zero when no row exists.
	GetBalance(ctx context.Context, accountID, currencyID int64) (decimal.Decimal, error)

	// GetBalanceAsOf sums the lines of entries dated on or before asOf.
	GetBalanceAsOf(ctx context.Context, accountID, currencyID int64, asOf time.Time) (decimal.Decimal, error)

	// ListAccountBalances returns the balance of an account in every currency it holds.
	ListAccountBalances(ctx context.Context, accountID int64) ([]domain.AccountBalance, error)

	// TrialBalance lists non-zero balances of a currency in debit and credit columns.
	TrialBalance(ctx context.Context, currencyID int64) (*domain.TrialBalance, error)
}

// BalanceSvcFacade combines all balance-related service interfaces
type BalanceSvcFacade interface {
	BalanceMaintainerSvc
	BalanceQuerySvc
}

// LedgerSvcFacade is the full ledger boundary: posting, balance maintenance and queries.
type LedgerSvcFacade interface {
	JournalSvcFacade
	BalanceSvcFacade
}
