package accounting

import (
	"errors"
	"sort"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinEntryLines is the minimum number of lines a journal entry must have.
const MinEntryLines = 2

// ValidateEntry checks the header and lines of an entry before anything is persisted.
// Every currency group must balance: |Σdebit - Σcredit| < domain.BalanceTolerance.
func ValidateEntry(entry domain.JournalEntry) error {
	if entry.Description == "" {
		return apperrors.NewValidationError("journal entry description is required")
	}
	if entry.EntryDate.IsZero() {
		return apperrors.NewValidationError("journal entry date is required")
	}
	if entry.CreatedBy == "" {
		return apperrors.NewValidationError("journal entry creator is required")
	}
	if len(entry.Lines) < MinEntryLines {
		return apperrors.NewValidationError("journal entry must have at least %d lines, got %d", MinEntryLines, len(entry.Lines))
	}

	for i, line := range entry.Lines {
		if err := ValidateLine(line); err != nil {
			return apperrors.NewValidationError("line %d: %s", i+1, messageOf(err))
		}
	}

	return ValidateBalance(entry.Lines)
}

// ValidateLine checks a single line in isolation.
func ValidateLine(line domain.JournalEntryLine) error {
	if line.AccountID <= 0 {
		return apperrors.NewValidationError("account is required")
	}
	if line.CurrencyID <= 0 {
		return apperrors.NewValidationError("currency is required")
	}
	if line.Debit.IsNegative() {
		return apperrors.NewValidationError("debit must not be negative, got %s", line.Debit.String())
	}
	if line.Credit.IsNegative() {
		return apperrors.NewValidationError("credit must not be negative, got %s", line.Credit.String())
	}
	if !HasMoneyScale(line.Debit) || !HasMoneyScale(line.Credit) {
		return apperrors.NewValidationError("amounts may have at most %d decimal places", domain.MoneyScale)
	}
	if line.Debit.GreaterThanOrEqual(domain.MaxAmount) || line.Credit.GreaterThanOrEqual(domain.MaxAmount) {
		return apperrors.NewValidationError("amounts must be below %s", domain.MaxAmount.String())
	}
	return nil
}

// ValidateBalance verifies that debits equal credits within every currency group.
func ValidateBalance(lines []domain.JournalEntryLine) error {
	type sums struct{ debit, credit decimal.Decimal }
	byCurrency := make(map[int64]*sums)
	for _, line := range lines {
		s, ok := byCurrency[line.CurrencyID]
		if !ok {
			s = &sums{debit: decimal.Zero, credit: decimal.Zero}
			byCurrency[line.CurrencyID] = s
		}
		s.debit = s.debit.Add(line.Debit)
		s.credit = s.credit.Add(line.Credit)
	}

	currencyIDs := make([]int64, 0, len(byCurrency))
	for id := range byCurrency {
		currencyIDs = append(currencyIDs, id)
	}
	sort.Slice(currencyIDs, func(i, j int) bool { return currencyIDs[i] < currencyIDs[j] })

	for _, id := range currencyIDs {
		s := byCurrency[id]
		if !domain.IsNegligible(s.debit.Sub(s.credit)) {
			return apperrors.NewValidationError("journal entry does not balance for currency %d: debits sum is %s and credits sum is %s",
				id, s.debit.String(), s.credit.String())
		}
	}
	return nil
}

// HasMoneyScale reports whether d has no more than domain.MoneyScale decimal places.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(domain.MoneyScale))
}

// NetDeltas sums debit - credit per (account, currency) over the given lines.
// Pairs whose net is negligible are dropped: they must not create balance rows.
func NetDeltas(lines []domain.JournalEntryLine) map[domain.BalanceKey]decimal.Decimal {
	deltas := make(map[domain.BalanceKey]decimal.Decimal)
	for _, line := range lines {
		deltas[line.Key()] = deltas[line.Key()].Add(line.Delta())
	}
	for key, delta := range deltas {
		if domain.IsNegligible(delta) {
			delete(deltas, key)
		}
	}
	return deltas
}

// MergeDeltas adds src into dst and returns dst.
func MergeDeltas(dst, src map[domain.BalanceKey]decimal.Decimal) map[domain.BalanceKey]decimal.Decimal {
	if dst == nil {
		dst = make(map[domain.BalanceKey]decimal.Decimal, len(src))
	}
	for key, delta := range src {
		dst[key] = dst[key].Add(delta)
	}
	for key, delta := range dst {
		if domain.IsNegligible(delta) {
			delete(dst, key)
		}
	}
	return dst
}

// SortedKeys returns the keys of deltas in lock order.
func SortedKeys(deltas map[domain.BalanceKey]decimal.Decimal) []domain.BalanceKey {
	keys := make([]domain.BalanceKey, 0, len(deltas))
	for key := range deltas {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// ReverseLines returns copies of lines with debit and credit swapped.
func ReverseLines(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	reversed := make([]domain.JournalEntryLine, len(lines))
	for i, line := range lines {
		reversed[i] = domain.JournalEntryLine{
			AccountID:  line.AccountID,
			CurrencyID: line.CurrencyID,
			Debit:      line.Credit,
			Credit:     line.Debit,
			Memo:       line.Memo,
		}
	}
	return reversed
}

// BalancesFromTotals turns line totals into fresh balance rows, omitting groups that net to zero.
// The result is ordered by key.
func BalancesFromTotals(totals []domain.LineTotal, asOf time.Time) []domain.AccountBalance {
	balances := make([]domain.AccountBalance, 0, len(totals))
	for _, total := range totals {
		net := total.Net()
		if domain.IsNegligible(net) {
			continue
		}
		balances = append(balances, domain.AccountBalance{
			AccountID:  total.AccountID,
			CurrencyID: total.CurrencyID,
			Balance:    net,
			AsOfDate:   asOf,
		})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Key().Less(balances[j].Key()) })
	return balances
}

// FindDrift compares materialized balances with line totals. A missing row counts as zero.
func FindDrift(balances []domain.AccountBalance, totals []domain.LineTotal) []domain.BalanceDrift {
	materialized := make(map[domain.BalanceKey]decimal.Decimal, len(balances))
	for _, b := range balances {
		materialized[b.Key()] = b.Balance
	}
	expected := make(map[domain.BalanceKey]decimal.Decimal, len(totals))
	for _, t := range totals {
		expected[t.BalanceKey] = t.Net()
	}

	keys := make(map[domain.BalanceKey]struct{}, len(materialized)+len(expected))
	for k := range materialized {
		keys[k] = struct{}{}
	}
	for k := range expected {
		keys[k] = struct{}{}
	}

	drifts := []domain.BalanceDrift{}
	for k := range keys {
		m, e := materialized[k], expected[k]
		if !domain.IsNegligible(m.Sub(e)) {
			drifts = append(drifts, domain.BalanceDrift{BalanceKey: k, Materialized: m, Expected: e})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].BalanceKey.Less(drifts[j].BalanceKey) })
	return drifts
}

func messageOf(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
