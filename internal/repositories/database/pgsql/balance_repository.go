package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/models"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(db DB) *PgxBalanceRepository {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

const balanceColumns = `balance_id, account_id, currency_id, balance, as_of_date`

func scanBalance(row pgx.Row) (models.AccountBalance, error) {
	var b models.AccountBalance
	err := row.Scan(&b.BalanceID, &b.AccountID, &b.CurrencyID, &b.Balance, &b.AsOfDate)
	return b, err
}

func collectBalances(rows pgx.Rows) ([]domain.AccountBalance, error) {
	balances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountBalance, error) {
		return scanBalance(row)
	})
	if err != nil {
		return nil, mapError(err, "account balances", "scan")
	}
	return mapping.ToDomainAccountBalanceSlice(balances), nil
}

// FindBalance returns the materialized row of a pair.
func (r *PgxBalanceRepository) FindBalance(ctx context.Context, key domain.BalanceKey) (*domain.AccountBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_balances WHERE account_id = $1 AND currency_id = $2;`
	m, err := scanBalance(r.DB.QueryRow(ctx, query, key.AccountID, key.CurrencyID))
	if err != nil {
		return nil, mapError(err, "account balance", "find")
	}
	b := mapping.ToDomainAccountBalance(m)
	return &b, nil
}

func (r *PgxBalanceRepository) ListBalancesByAccount(ctx context.Context, accountID int64) ([]domain.AccountBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_balances WHERE account_id = $1 ORDER BY currency_id;`
	rows, err := r.DB.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapError(err, "account balances", "query")
	}
	defer rows.Close()
	return collectBalances(rows)
}

// SumLinesAsOf aggregates a pair's lines over entries dated on or before asOf.
// The result is computed from lines, not from account_balances.
func (r *PgxBalanceRepository) SumLinesAsOf(ctx context.Context, key domain.BalanceKey, asOf time.Time) (domain.LineTotal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND l.currency_id = $2 AND e.entry_date <= $3;
	`
	total := domain.LineTotal{BalanceKey: key}
	var debit, credit decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, key.AccountID, key.CurrencyID, asOf).Scan(&debit, &credit); err != nil {
		return domain.LineTotal{}, mapError(err, "journal entry lines", "sum")
	}
	total.Debit = debit
	total.Credit = credit
	return total, nil
}
