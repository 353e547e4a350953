package repositories

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// JournalReader defines read operations for books and posted journal entries.
// Writes only happen through LedgerTx.
type JournalReader interface {
	// FindJournalByID retrieves a book by its identifier.
	FindJournalByID(ctx context.Context, journalID int64) (*domain.Journal, error)

	// ListJournals retrieves all books.
	ListJournals(ctx context.Context) ([]domain.Journal, error)

	// FindEntryByID retrieves an entry header together with its lines.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// ListEntries retrieves entries newest first using keyset pagination.
	// It returns the entries (with lines), a token for the next page and an error.
	ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
}
