package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/platform/metrics"
	"github.com/SscSPs/school_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// Metric operation names.
const (
	opPostEntry       = "post_entry"
	opPostEntries     = "post_entries"
	opReverseEntry    = "reverse_entry"
	opApplyEntry      = "apply_entry"
	opApplyPending    = "apply_pending_entries"
	opRecompute       = "recompute_balances"
	opVerify          = "verify_balances"
	defaultApplyLimit = 500
)

// ledgerService owns journal entries and the materialized balances derived from them.
// Posting methods live in journal_service.go, balance maintenance and queries in balance_service.go.
type ledgerService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	journalRepo   portsrepo.JournalReader
	balanceRepo   portsrepo.BalanceReader
	accountRepo   portsrepo.AccountReader
	currencyRepo  portsrepo.CurrencyReader
	reportingRepo portsrepo.ReportingRepository
	metrics       *metrics.Metrics
}

// NewLedgerService creates the ledger service. m may be nil.
func NewLedgerService(repos portsrepo.RepositoryProvider, m *metrics.Metrics, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:   newBaseService(options),
		txManager:     repos.TxManager,
		journalRepo:   repos.JournalRepo,
		balanceRepo:   repos.BalanceRepo,
		accountRepo:   repos.AccountRepo,
		currencyRepo:  repos.CurrencyRepo,
		reportingRepo: repos.ReportingRepo,
		metrics:       m,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// checkReferences verifies that every account, currency and book used by entries exists.
// Accounts are share-locked for the rest of the transaction. Postings require active accounts;
// reversals do not, so a deactivated account can still be corrected.
func (s *ledgerService) checkReferences(ctx context.Context, tx portsrepo.LedgerTx, entries []*domain.JournalEntry, requireActive bool) error {
	accountSet := make(map[int64]struct{})
	currencySet := make(map[int64]struct{})
	journalSet := make(map[int64]struct{})
	for _, e := range entries {
		if e.JournalID != nil {
			journalSet[*e.JournalID] = struct{}{}
		}
		for _, l := range e.Lines {
			accountSet[l.AccountID] = struct{}{}
			currencySet[l.CurrencyID] = struct{}{}
		}
	}

	accountIDs := sortedIDs(accountSet)
	accounts, err := tx.FindAccountsByIDsForShare(ctx, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewNotFoundError(notFoundMessage("account", id))
		}
		if requireActive && !acc.IsActive {
			return apperrors.NewValidationError("account %d (%s) is inactive", id, acc.Code)
		}
	}

	currencyIDs := sortedIDs(currencySet)
	currencies, err := tx.FindCurrenciesByIDs(ctx, currencyIDs)
	if err != nil {
		return err
	}
	for _, id := range currencyIDs {
		if _, ok := currencies[id]; !ok {
			return apperrors.NewNotFoundError(notFoundMessage("currency", id))
		}
	}

	for _, id := range sortedIDs(journalSet) {
		if _, err := tx.FindJournalByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// insertAndApply persists entries and applies their netted deltas in the caller's transaction.
func (s *ledgerService) insertAndApply(ctx context.Context, tx portsrepo.LedgerTx, entries []*domain.JournalEntry) error {
	var deltas map[domain.BalanceKey]decimal.Decimal
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if err := tx.InsertJournalEntry(ctx, e); err != nil {
			return err
		}
		ids = append(ids, e.EntryID)
		deltas = accounting.MergeDeltas(deltas, accounting.NetDeltas(e.Lines))
	}

	touched, err := applyDeltas(ctx, tx, deltas, s.Today())
	if err != nil {
		return err
	}

	appliedAt := s.Now()
	if err := tx.MarkBalancesApplied(ctx, ids, appliedAt); err != nil {
		return err
	}
	for _, e := range entries {
		at := appliedAt
		e.BalancesAppliedAt = &at
	}

	s.metrics.AddBalanceRows(touched)
	s.LogDebug(ctx, "Balance deltas applied", slog.Int("entries", len(entries)), slog.Int("balance_rows", touched))
	return nil
}

// applyDeltas adds each delta to its balance row. Rows are locked in key order so that
// concurrent postings touching the same pairs cannot deadlock. A missing row is created
// with an upsert, which also absorbs a row created concurrently by another posting.
func applyDeltas(ctx context.Context, tx portsrepo.BalanceTxStore, deltas map[domain.BalanceKey]decimal.Decimal, asOf time.Time) (int, error) {
	if len(deltas) == 0 {
		return 0, nil
	}
	keys := accounting.SortedKeys(deltas)

	locked, err := tx.LockBalances(ctx, keys)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		delta := deltas[key]
		if row, ok := locked[key]; ok {
			row.Balance = row.Balance.Add(delta)
			row.AsOfDate = asOf
			if err := tx.UpdateBalance(ctx, row); err != nil {
				return 0, err
			}
			continue
		}
		if err := tx.AddToBalance(ctx, key, delta, asOf); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
