package repositories

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// ReportingRepository defines read models built from the materialized balances.
type ReportingRepository interface {
	// GetTrialBalanceData returns one row per account with a balance row in the currency.
	// Debit holds positive balances and Credit the absolute value of negative ones.
	GetTrialBalanceData(ctx context.Context, currencyID int64) ([]domain.TrialBalanceRow, error)
}
