// Package memory is an in-process implementation of the repository ports.
// It is selected with STORAGE_DRIVER=memory and backs the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
)

// DefaultJournals are the books seeded into a new store. They match the SQL seed migration.
var DefaultJournals = []domain.Journal{
	{JournalID: 1, Code: "GENERAL", Name: "General Journal"},
	{JournalID: 2, Code: "FEES", Name: "Student Fees"},
	{JournalID: 3, Code: "PAYROLL", Name: "Payroll"},
	{JournalID: 4, Code: "EXPENSES", Name: "Expenses"},
	{JournalID: 5, Code: "TRANSPORT", Name: "Transport"},
	{JournalID: 6, Code: "TRANSFERS", Name: "Cash and Bank Transfers"},
}

type state struct {
	currencies map[int64]domain.Currency
	accounts   map[int64]domain.Account
	journals   map[int64]domain.Journal
	entries    map[int64]domain.JournalEntry
	balances   map[domain.BalanceKey]domain.AccountBalance

	lastCurrencyID int64
	lastAccountID  int64
	lastEntryID    int64
	lastLineID     int64
	lastBalanceID  int64
}

func newState() *state {
	st := &state{
		currencies: make(map[int64]domain.Currency),
		accounts:   make(map[int64]domain.Account),
		journals:   make(map[int64]domain.Journal),
		entries:    make(map[int64]domain.JournalEntry),
		balances:   make(map[domain.BalanceKey]domain.AccountBalance),
	}
	for _, j := range DefaultJournals {
		st.journals[j.JournalID] = j
	}
	return st
}

// clone deep-copies the state so a transaction can be discarded on failure.
func (st *state) clone() *state {
	c := *st
	c.currencies = make(map[int64]domain.Currency, len(st.currencies))
	for k, v := range st.currencies {
		c.currencies[k] = v
	}
	c.accounts = make(map[int64]domain.Account, len(st.accounts))
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	c.journals = make(map[int64]domain.Journal, len(st.journals))
	for k, v := range st.journals {
		c.journals[k] = v
	}
	c.entries = make(map[int64]domain.JournalEntry, len(st.entries))
	for k, v := range st.entries {
		c.entries[k] = copyEntry(v)
	}
	c.balances = make(map[domain.BalanceKey]domain.AccountBalance, len(st.balances))
	for k, v := range st.balances {
		c.balances[k] = v
	}
	return &c
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalEntryLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	if e.JournalID != nil {
		id := *e.JournalID
		e.JournalID = &id
	}
	if e.ReversesEntryID != nil {
		id := *e.ReversesEntryID
		e.ReversesEntryID = &id
	}
	if e.BalancesAppliedAt != nil {
		at := *e.BalancesAppliedAt
		e.BalancesAppliedAt = &at
	}
	return e
}

// Store keeps the whole ledger in memory. Transactions are serialized by a mutex
// and work on a copy of the state that replaces the live state only on commit.
type Store struct {
	mu     sync.RWMutex
	state  *state
	faults map[string]error
}

// NewStore creates an empty store with the default books.
func NewStore() *Store {
	return &Store{state: newState(), faults: make(map[string]error)}
}

// InjectFault makes the next call of the named transactional operation fail with err.
// Used to exercise rollback paths.
func (s *Store) InjectFault(operation string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[operation] = err
}

// WithinTx implements portsrepo.TransactionManager.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, st: s.state.clone()}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("transaction panicked: %v", p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx.st
	return nil
}

// read runs fn against the committed state.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// NewRepositoryProvider exposes a store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   store,
		CurrencyRepo:  store,
		JournalRepo:   store,
		BalanceRepo:   store,
		ReportingRepo: store,
		TxManager:     store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.CurrencyRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade  = (*Store)(nil)
	_ portsrepo.BalanceRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ReportingRepository      = (*Store)(nil)
	_ portsrepo.TransactionManager       = (*Store)(nil)
	_ portsrepo.LedgerTx                 = (*memTx)(nil)
)
