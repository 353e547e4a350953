package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ledgerLockKey is the advisory lock shared by postings and taken exclusively by recompute and verify.
const ledgerLockKey int64 = 0x5c4001

const (
	constraintEntryReference = "ux_journal_entries_reference"
	constraintEntryReversal  = "ux_journal_entries_reverses"
)

// ledgerTx implements portsrepo.LedgerTx on top of one pgx transaction.
type ledgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) AcquirePostingLock(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock_shared($1);`, ledgerLockKey); err != nil {
		return mapError(err, "posting lock", "acquire")
	}
	return nil
}

func (t *ledgerTx) AcquireMaintenanceLock(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, ledgerLockKey); err != nil {
		return mapError(err, "maintenance lock", "acquire")
	}
	return nil
}

func (t *ledgerTx) FindAccountsByIDsForShare(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	return findAccountsByIDs(ctx, t.tx, accountIDs, true)
}

func (t *ledgerTx) FindCurrenciesByIDs(ctx context.Context, currencyIDs []int64) (map[int64]domain.Currency, error) {
	return findCurrenciesByIDs(ctx, t.tx, currencyIDs)
}

func (t *ledgerTx) FindJournalByID(ctx context.Context, journalID int64) (*domain.Journal, error) {
	return findJournal(ctx, t.tx, journalID)
}

// InsertJournalEntry writes the header, then every line in a single batch round trip.
func (t *ledgerTx) InsertJournalEntry(ctx context.Context, entry *domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(*entry)
	headerQuery := `
		INSERT INTO journal_entries (description, reference, entry_date, journal_id, reverses_entry_id,
			balances_applied_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING entry_id;
	`
	err := t.tx.QueryRow(ctx, headerQuery,
		m.Description,
		m.Reference,
		m.EntryDate,
		m.JournalID,
		m.ReversesEntryID,
		m.BalancesAppliedAt,
		m.CreatedAt,
		m.CreatedBy,
	).Scan(&entry.EntryID)
	if err != nil {
		return mapEntryInsertError(err, entry)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (entry_id, account_id, currency_id, debit, credit, memo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING line_id;
	`
	for i := range entry.Lines {
		l := &entry.Lines[i]
		l.EntryID = entry.EntryID
		batch.Queue(lineQuery, l.EntryID, l.AccountID, l.CurrencyID, l.Debit, l.Credit, l.Memo).
			QueryRow(func(row pgx.Row) error {
				return row.Scan(&l.LineID)
			})
	}

	br := t.tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapError(err, fmt.Sprintf("lines of journal entry %d", entry.EntryID), "insert")
	}
	return nil
}

func mapEntryInsertError(err error, entry *domain.JournalEntry) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case constraintEntryReference:
			return apperrors.NewDuplicateError("journal entry reference already posted: "+entry.Reference, err)
		case constraintEntryReversal:
			return apperrors.NewAppError(http.StatusConflict, "journal entry already reversed", err)
		}
	}
	return mapError(err, "journal entry", "insert")
}

func (t *ledgerTx) FindJournalEntryForUpdate(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	return findEntry(ctx, t.tx, entryID, " FOR UPDATE")
}

func (t *ledgerTx) FindReversalOf(ctx context.Context, entryID int64) (*int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `SELECT entry_id FROM journal_entries WHERE reverses_entry_id = $1;`, entryID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "reversal", "find")
	}
	return &id, nil
}

func (t *ledgerTx) FindUnappliedEntryIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT entry_id FROM journal_entries
		WHERE balances_applied_at IS NULL
		ORDER BY entry_id
		LIMIT $1;
	`, limit)
	if err != nil {
		return nil, mapError(err, "unapplied journal entries", "query")
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapError(err, "unapplied journal entries", "scan")
	}
	return ids, nil
}

func (t *ledgerTx) MarkBalancesApplied(ctx context.Context, entryIDs []int64, at time.Time) error {
	if len(entryIDs) == 0 {
		return nil
	}
	cmdTag, err := t.tx.Exec(ctx, `UPDATE journal_entries SET balances_applied_at = $2 WHERE entry_id = ANY($1);`, entryIDs, at)
	if err != nil {
		return mapError(err, "journal entries", "mark applied")
	}
	if cmdTag.RowsAffected() != int64(len(entryIDs)) {
		return apperrors.NewNotFoundError("journal entry not found")
	}
	return nil
}

func (t *ledgerTx) MarkAllBalancesApplied(ctx context.Context, at time.Time) (int64, error) {
	cmdTag, err := t.tx.Exec(ctx, `UPDATE journal_entries SET balances_applied_at = $1 WHERE balances_applied_at IS NULL;`, at)
	if err != nil {
		return 0, mapError(err, "journal entries", "mark applied")
	}
	return cmdTag.RowsAffected(), nil
}

// LockBalances takes row locks in key order so that concurrent postings touching
// overlapping pairs cannot deadlock.
func (t *ledgerTx) LockBalances(ctx context.Context, keys []domain.BalanceKey) (map[domain.BalanceKey]domain.AccountBalance, error) {
	res := make(map[domain.BalanceKey]domain.AccountBalance, len(keys))
	if len(keys) == 0 {
		return res, nil
	}
	accountIDs := make([]int64, len(keys))
	currencyIDs := make([]int64, len(keys))
	for i, k := range keys {
		accountIDs[i] = k.AccountID
		currencyIDs[i] = k.CurrencyID
	}

	query := `
		SELECT b.balance_id, b.account_id, b.currency_id, b.balance, b.as_of_date
		FROM account_balances b
		JOIN unnest($1::bigint[], $2::bigint[]) AS k(account_id, currency_id)
			ON b.account_id = k.account_id AND b.currency_id = k.currency_id
		ORDER BY b.account_id, b.currency_id
		FOR UPDATE OF b;
	`
	rows, err := t.tx.Query(ctx, query, accountIDs, currencyIDs)
	if err != nil {
		return nil, mapError(err, "account balances", "lock")
	}
	defer rows.Close()

	balances, err := collectBalances(rows)
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		res[b.Key()] = b
	}
	return res, nil
}

func (t *ledgerTx) UpdateBalance(ctx context.Context, balance domain.AccountBalance) error {
	cmdTag, err := t.tx.Exec(ctx, `
		UPDATE account_balances SET balance = $3, as_of_date = $4
		WHERE account_id = $1 AND currency_id = $2;
	`, balance.AccountID, balance.CurrencyID, balance.Balance, balance.AsOfDate)
	if err != nil {
		return mapError(err, "account balance", "update")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account balance not found")
	}
	return nil
}

// AddToBalance inserts the pair or, when another transaction created it first, adds to it.
func (t *ledgerTx) AddToBalance(ctx context.Context, key domain.BalanceKey, delta decimal.Decimal, asOf time.Time) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO account_balances (account_id, currency_id, balance, as_of_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, currency_id)
		DO UPDATE SET balance = account_balances.balance + EXCLUDED.balance, as_of_date = EXCLUDED.as_of_date;
	`, key.AccountID, key.CurrencyID, delta, asOf)
	if err != nil {
		return mapError(err, "account balance", "upsert")
	}
	return nil
}

func (t *ledgerTx) ListAllBalances(ctx context.Context) ([]domain.AccountBalance, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+balanceColumns+` FROM account_balances ORDER BY account_id, currency_id;`)
	if err != nil {
		return nil, mapError(err, "account balances", "query")
	}
	defer rows.Close()
	return collectBalances(rows)
}

func (t *ledgerTx) DeleteAllBalances(ctx context.Context) (int64, error) {
	cmdTag, err := t.tx.Exec(ctx, `DELETE FROM account_balances;`)
	if err != nil {
		return 0, mapError(err, "account balances", "delete")
	}
	return cmdTag.RowsAffected(), nil
}

func (t *ledgerTx) SumLinesByAccountCurrency(ctx context.Context) ([]domain.LineTotal, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT account_id, currency_id, SUM(debit), SUM(credit)
		FROM journal_entry_lines
		GROUP BY account_id, currency_id
		ORDER BY account_id, currency_id;
	`)
	if err != nil {
		return nil, mapError(err, "journal entry lines", "sum")
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LineTotal, error) {
		var lt domain.LineTotal
		err := row.Scan(&lt.AccountID, &lt.CurrencyID, &lt.Debit, &lt.Credit)
		return lt, err
	})
	if err != nil {
		return nil, mapError(err, "journal entry lines", "scan")
	}
	return totals, nil
}

// InsertBalances bulk loads rows with the COPY protocol.
func (t *ledgerTx) InsertBalances(ctx context.Context, balances []domain.AccountBalance) (int64, error) {
	if len(balances) == 0 {
		return 0, nil
	}
	n, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"account_balances"},
		[]string{"account_id", "currency_id", "balance", "as_of_date"},
		pgx.CopyFromSlice(len(balances), func(i int) ([]any, error) {
			b := balances[i]
			return []any{b.AccountID, b.CurrencyID, toNumeric(b.Balance), b.AsOfDate}, nil
		}),
	)
	if err != nil {
		return 0, mapError(err, "account balances", "copy")
	}
	return n, nil
}

// toNumeric converts for the binary COPY path, which cannot encode driver.Valuer strings as numeric.
func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// TxManager implements portsrepo.TransactionManager with pgx transactions.
type TxManager struct {
	BaseRepository
}

func newTxManager(db DB) *TxManager {
	return &TxManager{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// WithinTx runs fn in a transaction. The transaction commits only if fn returns nil;
// errors and panics roll it back and a panic is re-raised after the rollback.
func (m *TxManager) WithinTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			if rbErr := m.Rollback(ctx, tx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}
