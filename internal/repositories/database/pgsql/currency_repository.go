package pgsql

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/models"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(db DB) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_id, code, symbol, name, created_at, created_by, last_updated_at, last_updated_by`

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var c models.Currency
	err := row.Scan(
		&c.CurrencyID,
		&c.Code,
		&c.Symbol,
		&c.Name,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

// SaveCurrency inserts a new currency. A duplicate code returns ErrDuplicate.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error) {
	m := mapping.ToModelCurrency(currency)
	query := `
		INSERT INTO currencies (code, symbol, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING currency_id;
	`
	err := r.DB.QueryRow(ctx, query,
		m.Code,
		m.Symbol,
		m.Name,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.CurrencyID)
	if err != nil {
		return nil, mapError(err, "currency "+m.Code, "insert")
	}

	saved := mapping.ToDomainCurrency(m)
	return &saved, nil
}

func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = $1;`
	m, err := scanCurrency(r.DB.QueryRow(ctx, query, currencyID))
	if err != nil {
		return nil, mapError(err, "currency", "find")
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = $1;`
	m, err := scanCurrency(r.DB.QueryRow(ctx, query, currencyCode))
	if err != nil {
		return nil, mapError(err, "currency "+currencyCode, "find")
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY code;`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "currencies", "query")
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, mapError(err, "currencies", "scan")
	}
	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// findCurrenciesByIDs is shared by the pool-backed repository and the ledger transaction.
func findCurrenciesByIDs(ctx context.Context, q Querier, currencyIDs []int64) (map[int64]domain.Currency, error) {
	res := make(map[int64]domain.Currency, len(currencyIDs))
	if len(currencyIDs) == 0 {
		return res, nil
	}
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = ANY($1);`
	rows, err := q.Query(ctx, query, currencyIDs)
	if err != nil {
		return nil, mapError(err, "currencies", "query")
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, mapError(err, "currencies", "scan")
	}
	for _, m := range modelCurrencies {
		res[m.CurrencyID] = mapping.ToDomainCurrency(m)
	}
	return res, nil
}
