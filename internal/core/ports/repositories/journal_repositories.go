package repositories

import (
	"context"
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry without its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of an entry ordered by line_order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntriesByOrganization retrieves entries newest-first.
	ListEntriesByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveDraftEntry persists a draft entry and its lines atomically.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateDraftEntry updates a draft's header fields and replaces its lines.
	// Returns ErrConflict when the entry is no longer a draft.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// DeleteDraftEntry removes a draft entry and its lines. Returns
	// ErrConflict when the entry is no longer a draft.
	DeleteDraftEntry(ctx context.Context, entryID string) error

	// PostEntry atomically allocates the fiscal year's next verification
	// number and transitions the entry from draft to posted. The counter
	// increment and the status change commit as one unit; concurrent posts
	// against the same fiscal year serialize on the fiscal year row. Returns
	// the allocated verification number.
	PostEntry(ctx context.Context, entryID, fiscalYearID, postedBy string, postedAt time.Time) (int64, error)

	// SaveReversal persists a reversing entry, posts it (allocating its
	// verification number) and links the original entry to it, all within one
	// transaction. Returns the reversing entry's verification number.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalEntryLine, originalEntryID string) (int64, error)
}

// LedgerReader defines the read operations backing general ledger reports.
// Only posted lines participate; a posted status is always visible together
// with its verification number.
type LedgerReader interface {
	// SumPostedAmountsBefore returns the debit and credit totals of all
	// posted lines for an account strictly before the given date.
	SumPostedAmountsBefore(ctx context.Context, organizationID, accountID string, before time.Time) (debit, credit decimal.Decimal, err error)

	// FindPostedLinesByAccountAndRange returns posted lines within [from, to]
	// ordered by (entry_date, verification_number, line_order), with entry
	// date, verification number and description denormalized onto each line.
	FindPostedLinesByAccountAndRange(ctx context.Context, organizationID, accountID string, from, to time.Time) ([]domain.JournalEntryLine, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	LedgerReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction
// capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
