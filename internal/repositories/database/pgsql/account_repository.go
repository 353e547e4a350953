package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/models"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DB) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, parent_account_id, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.AccountID,
		&a.Code,
		&a.Name,
		&a.AccountType,
		&a.ParentAccountID, // Nullable
		&a.Description,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

func collectAccounts(rows pgx.Rows) ([]models.Account, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
}

// SaveAccount inserts a new account. A duplicate code returns ErrDuplicate and a
// missing parent ErrNotFound.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (code, name, account_type, parent_account_id, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING account_id;
	`
	err := r.DB.QueryRow(ctx, query,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.AccountID)
	if err != nil {
		return nil, mapError(err, "account "+m.Code, "insert")
	}

	saved := mapping.ToDomainAccount(m)
	return &saved, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.DB.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("account %d", accountID), "find")
	}
	a := mapping.ToDomainAccount(m)
	return &a, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	m, err := scanAccount(r.DB.QueryRow(ctx, query, code))
	if err != nil {
		return nil, mapError(err, "account "+code, "find")
	}
	a := mapping.ToDomainAccount(m)
	return &a, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	return findAccountsByIDs(ctx, r.DB, accountIDs, false)
}

// findAccountsByIDs optionally takes FOR SHARE row locks so the accounts cannot be
// deactivated until the surrounding transaction ends.
func findAccountsByIDs(ctx context.Context, q Querier, accountIDs []int64, forShare bool) (map[int64]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[int64]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id`
	if forShare {
		query += ` FOR SHARE`
	}

	rows, err := q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapError(err, "accounts", "query")
	}
	defer rows.Close()

	modelAccounts, err := collectAccounts(rows)
	if err != nil {
		return nil, mapError(err, "accounts", "scan")
	}
	return mapping.ToDomainAccountMap(modelAccounts), nil
}

// ListAccounts retrieves accounts ordered by code. A zero limit returns every account.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.AccountType != nil {
		args = append(args, string(*filter.AccountType))
		conditions = append(conditions, "account_type = $"+strconv.Itoa(len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.DB.Query(ctx, query+";", args...)
	if err != nil {
		return nil, mapError(err, "accounts", "query")
	}
	defer rows.Close()

	modelAccounts, err := collectAccounts(rows)
	if err != nil {
		return nil, mapError(err, "accounts", "scan")
	}
	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

// UpdateAccount updates the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2,
		    description = $3,
		    is_active = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE account_id = $1;
	`
	cmdTag, err := r.DB.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("account %d", account.AccountID), "update")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d not found for update", account.AccountID))
	}
	return nil
}

// DeactivateAccount marks an account inactive. Deactivating an inactive account is a validation error.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active
		RETURNING account_id;
	`
	var id int64
	err := r.DB.QueryRow(ctx, query, accountID, now, userID).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return mapError(err, fmt.Sprintf("account %d", accountID), "deactivate")
	}

	// tell "missing" apart from "already inactive"
	if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
		return findErr
	}
	return apperrors.NewValidationError("account %d is already inactive", accountID)
}
