package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/models"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/SscSPs/school_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for books and posted entries.
func newPgxJournalRepository(db DB) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const (
	entryColumns = `e.entry_id, e.description, e.reference, e.entry_date, e.journal_id, e.reverses_entry_id,
	e.balances_applied_at, e.created_at, e.created_by`
	lineColumns = `line_id, entry_id, account_id, currency_id, debit, credit, memo`
)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.Description,
		&e.Reference,
		&e.EntryDate,
		&e.JournalID,
		&e.ReversesEntryID,
		&e.BalancesAppliedAt,
		&e.CreatedAt,
		&e.CreatedBy,
	)
	return e, err
}

func scanLine(row pgx.CollectableRow) (models.JournalEntryLine, error) {
	var l models.JournalEntryLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.AccountID,
		&l.CurrencyID,
		&l.Debit,
		&l.Credit,
		&l.Memo,
	)
	return l, err
}

// loadLines fetches the lines of the given entries grouped by entry, in insertion order.
func loadLines(ctx context.Context, q Querier, entryIDs []int64) (map[int64][]models.JournalEntryLine, error) {
	res := make(map[int64][]models.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return res, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_id;`
	rows, err := q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, mapError(err, "journal entry lines", "query")
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return nil, mapError(err, "journal entry lines", "scan")
	}
	for _, l := range lines {
		res[l.EntryID] = append(res[l.EntryID], l)
	}
	return res, nil
}

// findEntry loads one entry header and its lines; lock is appended to the header query.
func findEntry(ctx context.Context, q Querier, entryID int64, lock string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries e WHERE e.entry_id = $1` + lock + `;`
	m, err := scanEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("journal entry %d", entryID), "find")
	}
	lines, err := loadLines(ctx, q, []int64{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines[entryID])
	return &entry, nil
}

func findJournal(ctx context.Context, q Querier, journalID int64) (*domain.Journal, error) {
	var m models.Journal
	err := q.QueryRow(ctx, `SELECT journal_id, code, name FROM journals WHERE journal_id = $1;`, journalID).
		Scan(&m.JournalID, &m.Code, &m.Name)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("journal %d", journalID), "find")
	}
	j := mapping.ToDomainJournal(m)
	return &j, nil
}

func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID int64) (*domain.Journal, error) {
	return findJournal(ctx, r.DB, journalID)
}

// ListJournals retrieves all books ordered by ID.
func (r *PgxJournalRepository) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	rows, err := r.DB.Query(ctx, `SELECT journal_id, code, name FROM journals ORDER BY journal_id;`)
	if err != nil {
		return nil, mapError(err, "journals", "query")
	}
	defer rows.Close()

	journals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Journal, error) {
		var m models.Journal
		err := row.Scan(&m.JournalID, &m.Code, &m.Name)
		return m, err
	})
	if err != nil {
		return nil, mapError(err, "journals", "scan")
	}
	return mapping.ToDomainJournalSlice(journals), nil
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	return findEntry(ctx, r.DB, entryID, "")
}

// ListEntries pages through entries newest first on (entry_date, entry_id).
// One extra row is fetched to know whether another page exists.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.JournalID != nil {
		conditions = append(conditions, "e.journal_id = "+arg(*filter.JournalID))
	}
	if filter.From != nil {
		conditions = append(conditions, "e.entry_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "e.entry_date <= "+arg(*filter.To))
	}
	if filter.AccountID != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM journal_entry_lines l WHERE l.entry_id = e.entry_id AND l.account_id = "+arg(*filter.AccountID)+")")
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		conditions = append(conditions, fmt.Sprintf("(e.entry_date, e.entry_id) < (%s, %s)", arg(cursor.EntryDate), arg(cursor.EntryID)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries e`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.entry_date DESC, e.entry_id DESC LIMIT " + arg(limit+1) + ";"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "journal entries", "query")
	}
	headers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalEntry, error) {
		return scanEntry(row)
	})
	rows.Close()
	if err != nil {
		return nil, nil, mapError(err, "journal entries", "scan")
	}

	var nextToken *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		token := pagination.EncodeToken(pagination.EntryCursor{EntryDate: last.EntryDate, EntryID: last.EntryID})
		nextToken = &token
	}

	ids := make([]int64, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := loadLines(ctx, r.DB, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return entries, nextToken, nil
}
