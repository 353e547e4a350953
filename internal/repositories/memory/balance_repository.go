package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindBalance(_ context.Context, key domain.BalanceKey) (*domain.AccountBalance, error) {
	var (
		b  domain.AccountBalance
		ok bool
	)
	s.read(func(st *state) { b, ok = st.balances[key] })
	if !ok {
		return nil, apperrors.NewNotFoundError("account balance not found")
	}
	return &b, nil
}

func (s *Store) ListBalancesByAccount(_ context.Context, accountID int64) ([]domain.AccountBalance, error) {
	balances := []domain.AccountBalance{}
	s.read(func(st *state) {
		for k, b := range st.balances {
			if k.AccountID == accountID {
				balances = append(balances, b)
			}
		}
	})
	sort.Slice(balances, func(i, j int) bool { return balances[i].CurrencyID < balances[j].CurrencyID })
	return balances, nil
}

func (s *Store) SumLinesAsOf(_ context.Context, key domain.BalanceKey, asOf time.Time) (domain.LineTotal, error) {
	total := domain.LineTotal{BalanceKey: key, Debit: decimal.Zero, Credit: decimal.Zero}
	s.read(func(st *state) {
		for _, e := range st.entries {
			if e.EntryDate.After(asOf) {
				continue
			}
			for _, l := range e.Lines {
				if l.Key() == key {
					total.Debit = total.Debit.Add(l.Debit)
					total.Credit = total.Credit.Add(l.Credit)
				}
			}
		}
	})
	return total, nil
}

// GetTrialBalanceData joins balance rows of the currency with their accounts, ordered by account code.
func (s *Store) GetTrialBalanceData(_ context.Context, currencyID int64) ([]domain.TrialBalanceRow, error) {
	rows := []domain.TrialBalanceRow{}
	s.read(func(st *state) {
		for k, b := range st.balances {
			if k.CurrencyID != currencyID {
				continue
			}
			a := st.accounts[k.AccountID]
			row := domain.TrialBalanceRow{
				AccountID:   a.AccountID,
				AccountCode: a.Code,
				AccountName: a.Name,
				AccountType: a.AccountType,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			if b.Balance.IsPositive() {
				row.Debit = b.Balance
			} else {
				row.Credit = b.Balance.Neg()
			}
			rows = append(rows, row)
		}
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows, nil
}
