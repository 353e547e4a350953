package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// BalanceReader defines read operations on materialized balances and line history.
type BalanceReader interface {
	// FindBalance returns the current balance row of a pair, or ErrNotFound when none exists.
	FindBalance(ctx context.Context, key domain.BalanceKey) (*domain.AccountBalance, error)

	// ListBalancesByAccount returns every balance row of an account ordered by currency.
	ListBalancesByAccount(ctx context.Context, accountID int64) ([]domain.AccountBalance, error)

	// SumLinesAsOf aggregates the lines of a pair over entries dated on or before asOf.
	SumLinesAsOf(ctx context.Context, key domain.BalanceKey, asOf time.Time) (domain.LineTotal, error)
}

// BalanceRepositoryFacade combines all balance-related repository interfaces
type BalanceRepositoryFacade interface {
	BalanceReader
}
