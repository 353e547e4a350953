package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// memTx works on a private copy of the state; WithinTx publishes it on commit.
type memTx struct {
	store *Store
	st    *state
}

func (t *memTx) fault(operation string) error {
	err, ok := t.store.faults[operation]
	if !ok {
		return nil
	}
	delete(t.store.faults, operation)
	return err
}

// The store mutex already serializes transactions, so both ledger locks are no-ops.
func (t *memTx) AcquirePostingLock(_ context.Context) error {
	return t.fault("AcquirePostingLock")
}

func (t *memTx) AcquireMaintenanceLock(_ context.Context) error {
	return t.fault("AcquireMaintenanceLock")
}

func (t *memTx) FindAccountsByIDsForShare(_ context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	if err := t.fault("FindAccountsByIDsForShare"); err != nil {
		return nil, err
	}
	return t.st.accountsByIDs(accountIDs), nil
}

func (t *memTx) FindCurrenciesByIDs(_ context.Context, currencyIDs []int64) (map[int64]domain.Currency, error) {
	res := make(map[int64]domain.Currency, len(currencyIDs))
	for _, id := range currencyIDs {
		if c, ok := t.st.currencies[id]; ok {
			res[id] = c
		}
	}
	return res, nil
}

func (t *memTx) FindJournalByID(_ context.Context, journalID int64) (*domain.Journal, error) {
	j, ok := t.st.journals[journalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal not found")
	}
	return &j, nil
}

func (t *memTx) InsertJournalEntry(_ context.Context, entry *domain.JournalEntry) error {
	if err := t.fault("InsertJournalEntry"); err != nil {
		return err
	}
	if entry.Reference != "" && entry.ReversesEntryID == nil {
		for _, e := range t.st.entries {
			if e.ReversesEntryID == nil && e.Reference == entry.Reference && sameJournal(e.JournalID, entry.JournalID) {
				return apperrors.NewDuplicateError("journal entry reference already posted: "+entry.Reference, nil)
			}
		}
	}
	if entry.ReversesEntryID != nil {
		for _, e := range t.st.entries {
			if e.ReversesEntryID != nil && *e.ReversesEntryID == *entry.ReversesEntryID {
				return apperrors.NewConflictError("journal entry already reversed")
			}
		}
	}

	t.st.lastEntryID++
	entry.EntryID = t.st.lastEntryID
	for i := range entry.Lines {
		t.st.lastLineID++
		entry.Lines[i].LineID = t.st.lastLineID
		entry.Lines[i].EntryID = entry.EntryID
	}
	t.st.entries[entry.EntryID] = copyEntry(*entry)
	return nil
}

func sameJournal(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (t *memTx) FindJournalEntryForUpdate(_ context.Context, entryID int64) (*domain.JournalEntry, error) {
	e, ok := t.st.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry not found")
	}
	e = copyEntry(e)
	return &e, nil
}

func (t *memTx) FindReversalOf(_ context.Context, entryID int64) (*int64, error) {
	for id, e := range t.st.entries {
		if e.ReversesEntryID != nil && *e.ReversesEntryID == entryID {
			id := id
			return &id, nil
		}
	}
	return nil, nil
}

func (t *memTx) FindUnappliedEntryIDs(_ context.Context, limit int) ([]int64, error) {
	ids := []int64{}
	for id, e := range t.st.entries {
		if e.BalancesAppliedAt == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (t *memTx) MarkBalancesApplied(_ context.Context, entryIDs []int64, at time.Time) error {
	if err := t.fault("MarkBalancesApplied"); err != nil {
		return err
	}
	for _, id := range entryIDs {
		e, ok := t.st.entries[id]
		if !ok {
			return apperrors.NewNotFoundError("journal entry not found")
		}
		applied := at
		e.BalancesAppliedAt = &applied
		t.st.entries[id] = e
	}
	return nil
}

func (t *memTx) MarkAllBalancesApplied(_ context.Context, at time.Time) (int64, error) {
	var n int64
	for id, e := range t.st.entries {
		if e.BalancesAppliedAt == nil {
			applied := at
			e.BalancesAppliedAt = &applied
			t.st.entries[id] = e
			n++
		}
	}
	return n, nil
}

func (t *memTx) LockBalances(_ context.Context, keys []domain.BalanceKey) (map[domain.BalanceKey]domain.AccountBalance, error) {
	if err := t.fault("LockBalances"); err != nil {
		return nil, err
	}
	res := make(map[domain.BalanceKey]domain.AccountBalance, len(keys))
	for _, k := range keys {
		if b, ok := t.st.balances[k]; ok {
			res[k] = b
		}
	}
	return res, nil
}

func (t *memTx) UpdateBalance(_ context.Context, balance domain.AccountBalance) error {
	if err := t.fault("UpdateBalance"); err != nil {
		return err
	}
	current, ok := t.st.balances[balance.Key()]
	if !ok {
		return apperrors.NewNotFoundError("account balance not found")
	}
	current.Balance = balance.Balance
	current.AsOfDate = balance.AsOfDate
	t.st.balances[balance.Key()] = current
	return nil
}

func (t *memTx) AddToBalance(_ context.Context, key domain.BalanceKey, delta decimal.Decimal, asOf time.Time) error {
	if err := t.fault("AddToBalance"); err != nil {
		return err
	}
	if _, ok := t.st.accounts[key.AccountID]; !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	if _, ok := t.st.currencies[key.CurrencyID]; !ok {
		return apperrors.NewNotFoundError("currency not found")
	}
	if current, ok := t.st.balances[key]; ok {
		current.Balance = current.Balance.Add(delta)
		current.AsOfDate = asOf
		t.st.balances[key] = current
		return nil
	}
	t.st.lastBalanceID++
	t.st.balances[key] = domain.AccountBalance{
		BalanceID:  t.st.lastBalanceID,
		AccountID:  key.AccountID,
		CurrencyID: key.CurrencyID,
		Balance:    delta,
		AsOfDate:   asOf,
	}
	return nil
}

func (t *memTx) ListAllBalances(_ context.Context) ([]domain.AccountBalance, error) {
	balances := make([]domain.AccountBalance, 0, len(t.st.balances))
	for _, b := range t.st.balances {
		balances = append(balances, b)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Key().Less(balances[j].Key()) })
	return balances, nil
}

func (t *memTx) DeleteAllBalances(_ context.Context) (int64, error) {
	if err := t.fault("DeleteAllBalances"); err != nil {
		return 0, err
	}
	n := int64(len(t.st.balances))
	t.st.balances = make(map[domain.BalanceKey]domain.AccountBalance)
	return n, nil
}

func (t *memTx) SumLinesByAccountCurrency(_ context.Context) ([]domain.LineTotal, error) {
	sums := make(map[domain.BalanceKey]*domain.LineTotal)
	for _, e := range t.st.entries {
		for _, l := range e.Lines {
			s, ok := sums[l.Key()]
			if !ok {
				s = &domain.LineTotal{BalanceKey: l.Key(), Debit: decimal.Zero, Credit: decimal.Zero}
				sums[l.Key()] = s
			}
			s.Debit = s.Debit.Add(l.Debit)
			s.Credit = s.Credit.Add(l.Credit)
		}
	}
	totals := make([]domain.LineTotal, 0, len(sums))
	for _, s := range sums {
		totals = append(totals, *s)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].BalanceKey.Less(totals[j].BalanceKey) })
	return totals, nil
}

func (t *memTx) InsertBalances(_ context.Context, balances []domain.AccountBalance) (int64, error) {
	if err := t.fault("InsertBalances"); err != nil {
		return 0, err
	}
	for _, b := range balances {
		if _, ok := t.st.balances[b.Key()]; ok {
			return 0, apperrors.NewDuplicateError("account balance already exists", nil)
		}
		t.st.lastBalanceID++
		b.BalanceID = t.st.lastBalanceID
		t.st.balances[b.Key()] = b
	}
	return int64(len(balances)), nil
}
