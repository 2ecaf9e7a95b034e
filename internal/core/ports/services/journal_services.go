package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/dto"
)

// JournalSvcFacade exposes the journal entry engine: draft creation and
// editing, posting with verification number allocation, draft deletion and
// reversal of posted entries.
type JournalSvcFacade interface {
	CreateDraftEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, organizationID string, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error)
	UpdateDraftEntry(ctx context.Context, organizationID, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error)
	DeleteDraftEntry(ctx context.Context, organizationID, entryID string) error
	ReverseEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error)
}
