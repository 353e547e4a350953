package services

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for posted entries and books.
type JournalReaderSvc interface {
	// GetEntry returns an entry with its lines.
	GetEntry(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// ListEntries returns a page of entries, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// ListJournals returns the books entries can be posted to.
	ListJournals(ctx context.Context) ([]domain.Journal, error)
}

// JournalWriterSvc defines the posting operations.
type JournalWriterSvc interface {
	// PostEntry validates and persists an entry and applies its balance deltas in one transaction.
	PostEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntries posts several entries in one transaction. Either all are posted or none.
	PostEntries(ctx context.Context, reqs []dto.CreateJournalEntryRequest, creatorUserID string) ([]domain.JournalEntry, error)

	// ReverseEntry posts a new entry that cancels entryID.
	ReverseEntry(ctx context.Context, entryID int64, req dto.ReverseJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
