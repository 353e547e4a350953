package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/utils/pagination"
)

func (s *Store) FindJournalByID(_ context.Context, journalID int64) (*domain.Journal, error) {
	var (
		j  domain.Journal
		ok bool
	)
	s.read(func(st *state) { j, ok = st.journals[journalID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("journal not found")
	}
	return &j, nil
}

func (s *Store) ListJournals(_ context.Context) ([]domain.Journal, error) {
	journals := []domain.Journal{}
	s.read(func(st *state) {
		for _, j := range st.journals {
			journals = append(journals, j)
		}
	})
	sort.Slice(journals, func(i, j int) bool { return journals[i].JournalID < journals[j].JournalID })
	return journals, nil
}

func (s *Store) FindEntryByID(_ context.Context, entryID int64) (*domain.JournalEntry, error) {
	var (
		e  domain.JournalEntry
		ok bool
	)
	s.read(func(st *state) {
		e, ok = st.entries[entryID]
		if ok {
			e = copyEntry(e)
		}
	})
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry not found")
	}
	return &e, nil
}

func (s *Store) ListEntries(_ context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.EntryCursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
		cursor = &c
	}
	limit := pagination.NormalizeLimit(filter.Limit)

	matched := []domain.JournalEntry{}
	s.read(func(st *state) {
		for _, e := range st.entries {
			if matchesFilter(e, filter) && (cursor == nil || cursor.After(e.EntryDate, e.EntryID)) {
				matched = append(matched, copyEntry(e))
			}
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].EntryDate.Equal(matched[j].EntryDate) {
			return matched[i].EntryDate.After(matched[j].EntryDate)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	var nextToken *string
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		token := pagination.EncodeToken(pagination.EntryCursor{EntryDate: last.EntryDate, EntryID: last.EntryID})
		nextToken = &token
	}
	return matched, nextToken, nil
}

func matchesFilter(e domain.JournalEntry, f domain.JournalEntryFilter) bool {
	if f.JournalID != nil && (e.JournalID == nil || *e.JournalID != *f.JournalID) {
		return false
	}
	if f.From != nil && e.EntryDate.Before(*f.From) {
		return false
	}
	if f.To != nil && e.EntryDate.After(*f.To) {
		return false
	}
	if f.AccountID != nil {
		for _, l := range e.Lines {
			if l.AccountID == *f.AccountID {
				return true
			}
		}
		return false
	}
	return true
}
