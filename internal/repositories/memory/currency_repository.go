package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
)

func (s *Store) FindCurrencyByID(_ context.Context, currencyID int64) (*domain.Currency, error) {
	var (
		c  domain.Currency
		ok bool
	)
	s.read(func(st *state) { c, ok = st.currencies[currencyID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("currency not found")
	}
	return &c, nil
}

func (s *Store) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	var found *domain.Currency
	s.read(func(st *state) {
		for _, c := range st.currencies {
			if c.Code == currencyCode {
				c := c
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFoundError("currency not found: " + currencyCode)
	}
	return found, nil
}

func (s *Store) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	currencies := []domain.Currency{}
	s.read(func(st *state) {
		for _, c := range st.currencies {
			currencies = append(currencies, c)
		}
	})
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })
	return currencies, nil
}

func (s *Store) SaveCurrency(_ context.Context, currency domain.Currency) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.state.currencies {
		if c.Code == currency.Code {
			return nil, apperrors.NewDuplicateError("currency code already exists: "+currency.Code, nil)
		}
	}
	s.state.lastCurrencyID++
	currency.CurrencyID = s.state.lastCurrencyID
	s.state.currencies[currency.CurrencyID] = currency
	return &currency, nil
}
