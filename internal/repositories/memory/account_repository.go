package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
)

func (s *Store) FindAccountByID(_ context.Context, accountID int64) (*domain.Account, error) {
	var (
		a  domain.Account
		ok bool
	)
	s.read(func(st *state) { a, ok = st.accounts[accountID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("account not found")
	}
	return &a, nil
}

func (s *Store) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	var found *domain.Account
	s.read(func(st *state) {
		for _, a := range st.accounts {
			if a.Code == code {
				a := a
				found = &a
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFoundError("account not found: " + code)
	}
	return found, nil
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	var res map[int64]domain.Account
	s.read(func(st *state) { res = st.accountsByIDs(accountIDs) })
	return res, nil
}

func (st *state) accountsByIDs(accountIDs []int64) map[int64]domain.Account {
	res := make(map[int64]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := st.accounts[id]; ok {
			res[id] = a
		}
	}
	return res
}

func (s *Store) ListAccounts(_ context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	accounts := []domain.Account{}
	s.read(func(st *state) {
		for _, a := range st.accounts {
			if filter.AccountType != nil && a.AccountType != *filter.AccountType {
				continue
			}
			if filter.ActiveOnly && !a.IsActive {
				continue
			}
			accounts = append(accounts, a)
		}
	})
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	if filter.Offset >= len(accounts) {
		return []domain.Account{}, nil
	}
	accounts = accounts[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(accounts) {
		accounts = accounts[:filter.Limit]
	}
	return accounts, nil
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.state.accounts {
		if a.Code == account.Code {
			return nil, apperrors.NewDuplicateError("account code already exists: "+account.Code, nil)
		}
	}
	if account.ParentAccountID != nil {
		if _, ok := s.state.accounts[*account.ParentAccountID]; !ok {
			return nil, apperrors.NewNotFoundError("parent account not found")
		}
	}
	s.state.lastAccountID++
	account.AccountID = s.state.lastAccountID
	s.state.accounts[account.AccountID] = account
	return &account, nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.state.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	current.Name = account.Name
	current.Description = account.Description
	current.IsActive = account.IsActive
	current.LastUpdatedAt = account.LastUpdatedAt
	current.LastUpdatedBy = account.LastUpdatedBy
	s.state.accounts[account.AccountID] = current
	return nil
}

func (s *Store) DeactivateAccount(_ context.Context, accountID int64, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.state.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	if !current.IsActive {
		return apperrors.NewValidationError("account %d is already inactive", accountID)
	}
	current.IsActive = false
	current.LastUpdatedAt = now
	current.LastUpdatedBy = userID
	s.state.accounts[accountID] = current
	return nil
}
