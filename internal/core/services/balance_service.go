package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ApplyEntry applies the deltas of a persisted entry. Entries already reflected in the
// balances are skipped, so calling it twice never double-counts.
func (s *ledgerService) ApplyEntry(ctx context.Context, entryID int64) (applied bool, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opApplyEntry, start, err) }()

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AcquirePostingLock(ctx); err != nil {
			return err
		}
		ok, err := s.applyPersisted(ctx, tx, entryID)
		applied = ok
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to apply journal entry", slog.Int64("entry_id", entryID))
		}
		return false, err
	}
	if !applied {
		s.LogDebug(ctx, "Journal entry balances already applied", slog.Int64("entry_id", entryID))
	}
	return applied, nil
}

// ApplyPendingEntries catches up on entries persisted without their balance deltas,
// for instance rows imported directly into the database.
func (s *ledgerService) ApplyPendingEntries(ctx context.Context, limit int) (count int, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opApplyPending, start, err) }()

	if limit <= 0 {
		limit = defaultApplyLimit
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		count = 0
		if err := tx.AcquirePostingLock(ctx); err != nil {
			return err
		}
		ids, err := tx.FindUnappliedEntryIDs(ctx, limit)
		if err != nil {
			return err
		}
		for _, id := range ids {
			ok, err := s.applyPersisted(ctx, tx, id)
			if err != nil {
				return err
			}
			if ok {
				count++
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply pending journal entries")
		return 0, err
	}

	if count > 0 {
		s.LogInfo(ctx, "Pending journal entries applied", slog.Int("entries", count))
	}
	return count, nil
}

func (s *ledgerService) applyPersisted(ctx context.Context, tx portsrepo.LedgerTx, entryID int64) (bool, error) {
	entry, err := tx.FindJournalEntryForUpdate(ctx, entryID)
	if err != nil {
		return false, err
	}
	if entry.BalancesApplied() {
		return false, nil
	}

	touched, err := applyDeltas(ctx, tx, accounting.NetDeltas(entry.Lines), s.Today())
	if err != nil {
		return false, err
	}
	if err := tx.MarkBalancesApplied(ctx, []int64{entryID}, s.Now()); err != nil {
		return false, err
	}
	s.metrics.AddBalanceRows(touched)
	return true, nil
}

// RecomputeBalances rebuilds account_balances from the full line history. It holds the
// maintenance lock, so postings wait until it commits and never interleave with it.
func (s *ledgerService) RecomputeBalances(ctx context.Context) (result *domain.RecomputeResult, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opRecompute, start, err) }()

	res := &domain.RecomputeResult{}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AcquireMaintenanceLock(ctx); err != nil {
			return err
		}
		deleted, err := tx.DeleteAllBalances(ctx)
		if err != nil {
			return err
		}
		totals, err := tx.SumLinesByAccountCurrency(ctx)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertBalances(ctx, accounting.BalancesFromTotals(totals, s.Today()))
		if err != nil {
			return err
		}
		if _, err := tx.MarkAllBalancesApplied(ctx, s.Now()); err != nil {
			return err
		}
		res.Deleted = deleted
		res.Inserted = inserted
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to recompute account balances")
		return nil, err
	}

	res.Duration = time.Since(start)
	s.LogInfo(ctx, "Account balances recomputed",
		slog.Int64("deleted", res.Deleted),
		slog.Int64("inserted", res.Inserted),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// VerifyBalances compares every balance row with the sum of its lines without modifying anything.
func (s *ledgerService) VerifyBalances(ctx context.Context) (drifts []domain.BalanceDrift, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opVerify, start, err) }()

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AcquireMaintenanceLock(ctx); err != nil {
			return err
		}
		balances, err := tx.ListAllBalances(ctx)
		if err != nil {
			return err
		}
		totals, err := tx.SumLinesByAccountCurrency(ctx)
		if err != nil {
			return err
		}
		drifts = accounting.FindDrift(balances, totals)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to verify account balances")
		return nil, err
	}

	s.metrics.SetDriftPairs(len(drifts))
	if len(drifts) > 0 {
		s.LogWarn(ctx, "Account balances drift from journal lines", slog.Int("pairs", len(drifts)))
	}
	return drifts, nil
}

// GetBalance returns the materialized balance of a pair. A pair without postings is zero.
func (s *ledgerService) GetBalance(ctx context.Context, accountID, currencyID int64) (decimal.Decimal, error) {
	if err := s.ensurePair(ctx, accountID, currencyID); err != nil {
		return decimal.Zero, err
	}
	b, err := s.balanceRepo.FindBalance(ctx, domain.BalanceKey{AccountID: accountID, CurrencyID: currencyID})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		s.LogError(ctx, err, "Failed to find account balance",
			slog.Int64("account_id", accountID), slog.Int64("currency_id", currencyID))
		return decimal.Zero, err
	}
	return b.Balance, nil
}

// GetBalanceAsOf sums the history up to and including asOf's date.
func (s *ledgerService) GetBalanceAsOf(ctx context.Context, accountID, currencyID int64, asOf time.Time) (decimal.Decimal, error) {
	if err := s.ensurePair(ctx, accountID, currencyID); err != nil {
		return decimal.Zero, err
	}
	total, err := s.balanceRepo.SumLinesAsOf(ctx, domain.BalanceKey{AccountID: accountID, CurrencyID: currencyID}, dateOf(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to sum journal lines",
			slog.Int64("account_id", accountID), slog.Int64("currency_id", currencyID))
		return decimal.Zero, err
	}
	return total.Net(), nil
}

func (s *ledgerService) ListAccountBalances(ctx context.Context, accountID int64) ([]domain.AccountBalance, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.ListBalancesByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account balances", slog.Int64("account_id", accountID))
		return nil, err
	}
	return balances, nil
}

// TrialBalance lists every non-zero balance in the currency. Because each entry balances,
// the debit and credit columns agree unless the balances have drifted.
func (s *ledgerService) TrialBalance(ctx context.Context, currencyID int64) (*domain.TrialBalance, error) {
	if _, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID); err != nil {
		return nil, err
	}
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, currencyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance data", slog.Int64("currency_id", currencyID))
		return nil, err
	}

	tb := &domain.TrialBalance{
		CurrencyID:  currencyID,
		GeneratedAt: s.Now(),
		Rows:        make([]domain.TrialBalanceRow, 0, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range rows {
		if domain.IsNegligible(row.Debit.Sub(row.Credit)) {
			continue
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}

	if !tb.IsBalanced() {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.Int64("currency_id", currencyID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	return tb, nil
}

func (s *ledgerService) ensurePair(ctx context.Context, accountID, currencyID int64) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	if _, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID); err != nil {
		return err
	}
	return nil
}
