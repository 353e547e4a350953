package pgsql

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db DB) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{DB: db},
	}
}

// GetTrialBalanceData reads the materialized balances of one currency.
// Positive balances go to the debit column and negative ones to the credit column.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, currencyID int64) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			CASE WHEN b.balance > 0 THEN b.balance ELSE 0 END AS debit,
			CASE WHEN b.balance < 0 THEN -b.balance ELSE 0 END AS credit
		FROM account_balances b
		JOIN accounts a ON a.account_id = b.account_id
		WHERE b.currency_id = $1
		ORDER BY a.code
	`

	rows, err := r.DB.Query(ctx, query, currencyID)
	if err != nil {
		return nil, mapError(err, "trial balance", "query")
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var (
			row           domain.TrialBalanceRow
			accountType   string
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&debit,
			&credit,
		); err != nil {
			return nil, mapError(err, "trial balance row", "scan")
		}

		row.AccountType = domain.AccountType(accountType)
		row.Debit = debit
		row.Credit = credit
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err, "trial balance rows", "iterate")
	}
	return result, nil
}
