package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/utils/accounting"
	"github.com/SscSPs/school_ledger/internal/utils/pagination"
)

// ReversalReferencePrefix prefixes the reference of reversal entries.
const ReversalReferencePrefix = "REV-"

func notFoundMessage(kind string, id int64) string {
	return fmt.Sprintf("%s %d not found", kind, id)
}

// newEntry builds an unsaved entry from a posting request.
func (s *ledgerService) newEntry(req dto.CreateJournalEntryRequest, creatorUserID string) domain.JournalEntry {
	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			AccountID:  l.AccountID,
			CurrencyID: l.CurrencyID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Memo:       strings.TrimSpace(l.Memo),
		}
	}

	var entryDate time.Time
	if !req.EntryDate.IsZero() {
		entryDate = dateOf(req.EntryDate)
	}

	return domain.JournalEntry{
		Description: strings.TrimSpace(req.Description),
		Reference:   strings.TrimSpace(req.Reference),
		EntryDate:   entryDate,
		JournalID:   req.JournalID,
		CreatedAt:   s.Now(),
		CreatedBy:   creatorUserID,
		Lines:       lines,
	}
}

// PostEntry validates the entry, then persists header, lines and balance deltas in one transaction.
// Nothing is written when validation fails.
func (s *ledgerService) PostEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (entry *domain.JournalEntry, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opPostEntry, start, err) }()

	e := s.newEntry(req, creatorUserID)
	if err := accounting.ValidateEntry(e); err != nil {
		s.LogWarn(ctx, "Rejected journal entry", slog.String("reason", err.Error()))
		return nil, err
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AcquirePostingLock(ctx); err != nil {
			return err
		}
		entries := []*domain.JournalEntry{&e}
		if err := s.checkReferences(ctx, tx, entries, true); err != nil {
			return err
		}
		return s.insertAndApply(ctx, tx, entries)
	})
	if err != nil {
		s.logPostingError(ctx, err, "Failed to post journal entry", slog.String("reference", e.Reference))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.Int64("entry_id", e.EntryID),
		slog.Int("lines", len(e.Lines)),
		slog.String("reference", e.Reference))
	return &e, nil
}

// PostEntries posts all entries in one transaction; their deltas are netted before being applied.
func (s *ledgerService) PostEntries(ctx context.Context, reqs []dto.CreateJournalEntryRequest, creatorUserID string) (posted []domain.JournalEntry, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opPostEntries, start, err) }()

	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("at least one journal entry is required")
	}

	entries := make([]domain.JournalEntry, len(reqs))
	ptrs := make([]*domain.JournalEntry, len(reqs))
	for i, req := range reqs {
		entries[i] = s.newEntry(req, creatorUserID)
		if err := accounting.ValidateEntry(entries[i]); err != nil {
			s.LogWarn(ctx, "Rejected journal entry batch", slog.Int("index", i), slog.String("reason", err.Error()))
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return nil, apperrors.NewValidationError("entry %d: %s", i+1, appErr.Message)
			}
			return nil, err
		}
		ptrs[i] = &entries[i]
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AcquirePostingLock(ctx); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, tx, ptrs, true); err != nil {
			return err
		}
		return s.insertAndApply(ctx, tx, ptrs)
	})
	if err != nil {
		s.logPostingError(ctx, err, "Failed to post journal entry batch", slog.Int("entries", len(entries)))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry batch posted", slog.Int("entries", len(entries)))
	return entries, nil
}

// ReverseEntry posts the mirror image of an entry. Each entry can be reversed once
// and reversal entries cannot be reversed themselves.
func (s *ledgerService) ReverseEntry(ctx context.Context, entryID int64, req dto.ReverseJournalEntryRequest, creatorUserID string) (reversal *domain.JournalEntry, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opReverseEntry, start, err) }()

	var rev domain.JournalEntry
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AcquirePostingLock(ctx); err != nil {
			return err
		}
		original, err := tx.FindJournalEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if original.IsReversal() {
			return apperrors.NewConflictError(fmt.Sprintf("journal entry %d is a reversal and cannot be reversed", entryID))
		}
		existing, err := tx.FindReversalOf(ctx, entryID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError(fmt.Sprintf("journal entry %d is already reversed by entry %d", entryID, *existing))
		}

		rev = domain.JournalEntry{
			Description:     fmt.Sprintf("Reversal of entry %d", entryID),
			Reference:       fmt.Sprintf("%s%d", ReversalReferencePrefix, entryID),
			EntryDate:       s.Today(),
			JournalID:       original.JournalID,
			ReversesEntryID: &original.EntryID,
			CreatedAt:       s.Now(),
			CreatedBy:       creatorUserID,
			Lines:           accounting.ReverseLines(original.Lines),
		}
		if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
			rev.Description = strings.TrimSpace(*req.Description)
		}
		if req.EntryDate != nil && !req.EntryDate.IsZero() {
			rev.EntryDate = dateOf(*req.EntryDate)
		}
		if err := accounting.ValidateEntry(rev); err != nil {
			return err
		}

		entries := []*domain.JournalEntry{&rev}
		if err := s.checkReferences(ctx, tx, entries, false); err != nil {
			return err
		}
		if err := s.insertAndApply(ctx, tx, entries); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return apperrors.NewConflictError(fmt.Sprintf("journal entry %d is already reversed", entryID))
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logPostingError(ctx, err, "Failed to reverse journal entry", slog.Int64("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.Int64("entry_id", entryID),
		slog.Int64("reversal_entry_id", rev.EntryID))
	return &rev, nil
}

func (s *ledgerService) GetEntry(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.Int64("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	filter := domain.JournalEntryFilter{
		JournalID: params.JournalID,
		AccountID: params.AccountID,
		Limit:     pagination.NormalizeLimit(params.Limit),
	}
	if !params.From.IsZero() {
		from := dateOf(params.From)
		filter.From = &from
	}
	if !params.To.IsZero() {
		to := dateOf(params.To)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.NewValidationError("from date must not be after to date")
	}
	if params.NextToken != "" {
		if _, err := pagination.DecodeToken(params.NextToken); err != nil {
			return nil, apperrors.NewValidationError("invalid nextToken")
		}
		token := params.NextToken
		filter.NextToken = &token
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func (s *ledgerService) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	journals, err := s.journalRepo.ListJournals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, err
	}
	return journals, nil
}

// logPostingError logs rejected postings as warnings and storage failures as errors.
func (s *ledgerService) logPostingError(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrConflict) {
		s.LogWarn(ctx, msg, append([]any{slog.String("reason", err.Error())}, keyvals...)...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
