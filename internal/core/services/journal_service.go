package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/dto"
	"github.com/klarbok/klarbok/internal/middleware"
	"github.com/klarbok/klarbok/internal/utils/accounting"
)

var (
	ErrEntryMinLines         = errors.New("entry must have at least two lines")
	ErrEntryUnbalanced       = errors.New("entry does not balance")
	ErrEntryNotDraft         = errors.New("entry is not a draft")
	ErrEntryNotPosted        = errors.New("entry is not posted")
	ErrDescriptionMissing    = errors.New("entry description is required")
	ErrFiscalYearClosed      = errors.New("fiscal year is closed")
	ErrDateOutsideFiscalYear = errors.New("entry date falls outside the fiscal year")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrReversalOfReversal    = errors.New("a reversing entry cannot itself be reversed")
	ErrAlreadyReversed       = errors.New("entry has already been reversed")
)

// journalService implements the journal entry engine: draft lifecycle,
// posting with gap-free verification number allocation, and reversals.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	fyRepo      portsrepo.FiscalYearReader
	accountSvc  portssvc.AccountSvcFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, fyRepo portsrepo.FiscalYearReader, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		fyRepo:      fyRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines to domain lines with fresh IDs and
// sequential line order.
func buildLines(entryID string, reqLines []dto.EntryLineRequest) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(reqLines))
	for i, lr := range reqLines {
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lr.AccountID,
			DebitAmount:  lr.DebitAmount,
			CreditAmount: lr.CreditAmount,
			LineOrder:    i,
		}
	}
	return lines
}

// validateLines checks the per-line invariants and that every referenced
// account exists in the organization and is active. Balance across lines is
// deliberately not checked here: drafts may be transiently unbalanced while
// being edited, and checkBalance runs at posting time.
func (s *journalService) validateLines(ctx context.Context, organizationID string, lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}

	for _, line := range lines {
		if err := accounting.ValidateLineAmounts(line); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, organizationID, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s (%s)", ErrAccountInactive, account.AccountNumber, id)
		}
	}
	return nil
}

// checkBalance enforces exact decimal equality of debit and credit totals.
func checkBalance(lines []domain.JournalEntryLine) error {
	if delta := accounting.BalanceDelta(lines); !delta.IsZero() {
		return fmt.Errorf("%w: debits exceed credits by %s", ErrEntryUnbalanced, delta.String())
	}
	return nil
}

// checkFiscalYear verifies the target year belongs to the organization, is
// open, and contains the entry date.
func (s *journalService) checkFiscalYear(fy *domain.FiscalYear, organizationID string, entryDate time.Time) error {
	if fy.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}
	if fy.IsClosed {
		return fmt.Errorf("%w: %s to %s closed at %s", ErrFiscalYearClosed,
			fy.StartDate.Format("2006-01-02"), fy.EndDate.Format("2006-01-02"), fy.ClosedAtRFC3339())
	}
	if !fy.Contains(entryDate) {
		return fmt.Errorf("%w: %s is outside %s to %s", ErrDateOutsideFiscalYear,
			entryDate.Format("2006-01-02"), fy.StartDate.Format("2006-01-02"), fy.EndDate.Format("2006-01-02"))
	}
	return nil
}

func (s *journalService) CreateDraftEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	fy, err := s.fyRepo.FindFiscalYearByID(ctx, req.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if err := s.checkFiscalYear(fy, organizationID, req.EntryDate); err != nil {
		return nil, err
	}

	entryID := uuid.NewString()
	lines := buildLines(entryID, req.Lines)
	if err := s.validateLines(ctx, organizationID, lines); err != nil {
		return nil, err
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: organizationID,
		FiscalYearID:   req.FiscalYearID,
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		Status:         domain.Draft,
		SourceType:     sourceType,
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveDraftEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save draft entry in repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	logger.Info("Draft entry created", slog.String("entry_id", entryID), slog.String("fiscal_year_id", req.FiscalYearID))
	return &entry, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry in repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to load entry lines from repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, organizationID string, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.journalRepo.ListEntriesByOrganization(ctx, organizationID, limit, offset)
	if err != nil {
		logger.Error("Failed to list entries from repository", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}

func (s *journalService) UpdateDraftEntry(ctx context.Context, organizationID, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotDraft, entryID, entry.Status)
	}

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, ErrDescriptionMissing
		}
		entry.Description = *req.Description
	}
	if req.Lines != nil {
		entry.Lines = buildLines(entryID, *req.Lines)
	}

	// The (possibly new) date must still land in the entry's fiscal year.
	fy, err := s.fyRepo.FindFiscalYearByID(ctx, entry.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if err := s.checkFiscalYear(fy, organizationID, entry.EntryDate); err != nil {
		return nil, err
	}
	if err := s.validateLines(ctx, organizationID, entry.Lines); err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry, entry.Lines); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a race with a concurrent post.
			return nil, fmt.Errorf("%w: entry %s", ErrEntryNotDraft, entryID)
		}
		logger.Error("Failed to update draft entry in repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	logger.Info("Draft entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

func (s *journalService) PostEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotDraft, entryID, entry.Status)
	}

	fy, err := s.fyRepo.FindFiscalYearByID(ctx, entry.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if err := s.checkFiscalYear(fy, organizationID, entry.EntryDate); err != nil {
		return nil, err
	}

	// Drafts may sit unbalanced; posting is the point of no return, so the
	// balance invariant is enforced here.
	if err := s.validateLines(ctx, organizationID, entry.Lines); err != nil {
		return nil, err
	}
	if err := checkBalance(entry.Lines); err != nil {
		return nil, err
	}

	postedAt := time.Now().UTC()
	verificationNumber, err := s.journalRepo.PostEntry(ctx, entryID, entry.FiscalYearID, userID, postedAt)
	if errors.Is(err, apperrors.ErrConcurrency) {
		// Lost the counter race; the allocation is atomic so one retry is safe.
		logger.Warn("Verification number allocation raced, retrying once", slog.String("entry_id", entryID))
		verificationNumber, err = s.journalRepo.PostEntry(ctx, entryID, entry.FiscalYearID, userID, postedAt)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %s", ErrEntryNotDraft, entryID)
		}
		logger.Error("Failed to post entry in repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = domain.Posted
	entry.VerificationNumber = verificationNumber
	entry.PostedAt = &postedAt
	entry.LastUpdatedAt = postedAt
	entry.LastUpdatedBy = userID

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.Int64("verification_number", verificationNumber))
	return entry, nil
}

func (s *journalService) DeleteDraftEntry(ctx context.Context, organizationID, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry %s is %s", ErrEntryNotDraft, entryID, entry.Status)
	}

	if err := s.journalRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: entry %s", ErrEntryNotDraft, entryID)
		}
		logger.Error("Failed to delete draft entry in repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return err
	}

	logger.Info("Draft entry deleted", slog.String("entry_id", entryID))
	return nil
}

func (s *journalService) ReverseEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotPosted, entryID, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s reverses %s", ErrReversalOfReversal, entryID, *original.OriginalEntryID)
	}
	if original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s reversed by %s", ErrAlreadyReversed, entryID, *original.ReversingEntryID)
	}

	fy, err := s.fyRepo.FindFiscalYearByID(ctx, original.FiscalYearID)
	if err != nil {
		return nil, err
	}
	// The reversal carries the original's date and fiscal year; a closed year
	// can no longer be corrected this way.
	if err := s.checkFiscalYear(fy, organizationID, original.EntryDate); err != nil {
		return nil, err
	}

	reversingID := uuid.NewString()
	reversedLines := make([]domain.JournalEntryLine, len(original.Lines))
	for i, line := range original.Lines {
		reversedLines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      reversingID,
			AccountID:    line.AccountID,
			DebitAmount:  line.CreditAmount,
			CreditAmount: line.DebitAmount,
			LineOrder:    line.LineOrder,
		}
	}

	now := time.Now().UTC()
	originalID := original.EntryID
	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		OrganizationID:  organizationID,
		FiscalYearID:    original.FiscalYearID,
		EntryDate:       original.EntryDate,
		Description:     fmt.Sprintf("Reversal of #%d: %s", original.VerificationNumber, original.Description),
		Status:          domain.Posted,
		SourceType:      domain.SourceManual,
		PostedAt:        &now,
		OriginalEntryID: &originalID,
		Lines:           reversedLines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	verificationNumber, err := s.journalRepo.SaveReversal(ctx, reversing, reversedLines, originalID)
	if errors.Is(err, apperrors.ErrConcurrency) {
		logger.Warn("Verification number allocation raced, retrying once", slog.String("entry_id", reversingID))
		verificationNumber, err = s.journalRepo.SaveReversal(ctx, reversing, reversedLines, originalID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %s", ErrAlreadyReversed, entryID)
		}
		logger.Error("Failed to save reversal in repository", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	reversing.VerificationNumber = verificationNumber
	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversingID), slog.Int64("verification_number", verificationNumber))
	return &reversing, nil
}
