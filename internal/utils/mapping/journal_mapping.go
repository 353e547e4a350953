package mapping

import (
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/models"
)

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{JournalID: m.JournalID, Code: m.Code, Name: m.Name}
}

// ToDomainJournalSlice converts a slice of model Journals to a slice of domain Journals
func ToDomainJournalSlice(ms []models.Journal) []domain.Journal {
	ds := make([]domain.Journal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournal(m)
	}
	return ds
}

// ToModelJournalEntry converts the header of a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		Description:       d.Description,
		Reference:         d.Reference,
		EntryDate:         d.EntryDate,
		JournalID:         d.JournalID,
		ReversesEntryID:   d.ReversesEntryID,
		BalancesAppliedAt: d.BalancesAppliedAt,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalEntryLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		Description:       m.Description,
		Reference:         m.Reference,
		EntryDate:         m.EntryDate,
		JournalID:         m.JournalID,
		ReversesEntryID:   m.ReversesEntryID,
		BalancesAppliedAt: m.BalancesAppliedAt,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
		Lines:             ToDomainJournalEntryLineSlice(lines),
	}
}

// ToDomainJournalEntryLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:     m.LineID,
		EntryID:    m.EntryID,
		AccountID:  m.AccountID,
		CurrencyID: m.CurrencyID,
		Debit:      m.Debit,
		Credit:     m.Credit,
		Memo:       m.Memo,
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines to domain lines
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}

// ToDomainAccountBalance converts a model AccountBalance to a domain AccountBalance
func ToDomainAccountBalance(m models.AccountBalance) domain.AccountBalance {
	return domain.AccountBalance{
		BalanceID:  m.BalanceID,
		AccountID:  m.AccountID,
		CurrencyID: m.CurrencyID,
		Balance:    m.Balance,
		AsOfDate:   m.AsOfDate,
	}
}

// ToDomainAccountBalanceSlice converts a slice of model AccountBalances to domain AccountBalances
func ToDomainAccountBalanceSlice(ms []models.AccountBalance) []domain.AccountBalance {
	ds := make([]domain.AccountBalance, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccountBalance(m)
	}
	return ds
}
