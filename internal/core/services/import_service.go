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
	"github.com/klarbok/klarbok/internal/sie"
)

// importService drives the SIE pipeline. Parsing and validation never touch
// storage state; only ImportAccounts writes.
type importService struct {
	parser       *sie.Parser
	parseTimeout time.Duration
	orgRepo      portsrepo.OrganizationReader
	accountRepo  portsrepo.AccountRepositoryFacade
	fyRepo       portsrepo.FiscalYearReader
	ledgerRepo   portsrepo.LedgerReader
}

// NewImportService creates a new import service. A non-positive maxInputBytes
// or parseTimeout falls back to the parser defaults.
func NewImportService(maxInputBytes int, parseTimeout time.Duration, orgRepo portsrepo.OrganizationReader, accountRepo portsrepo.AccountRepositoryFacade, fyRepo portsrepo.FiscalYearReader, ledgerRepo portsrepo.LedgerReader) portssvc.ImportSvcFacade {
	if parseTimeout <= 0 {
		parseTimeout = 30 * time.Second
	}
	return &importService{
		parser:       sie.NewParser(maxInputBytes),
		parseTimeout: parseTimeout,
		orgRepo:      orgRepo,
		accountRepo:  accountRepo,
		fyRepo:       fyRepo,
		ledgerRepo:   ledgerRepo,
	}
}

var _ portssvc.ImportSvcFacade = (*importService)(nil)

func (s *importService) ParseFile(ctx context.Context, raw []byte, filename string) (*sie.ParsedLedgerImport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parseCtx, cancel := context.WithTimeout(ctx, s.parseTimeout)
	defer cancel()

	parsed, err := s.parser.Parse(parseCtx, raw, filename)
	if err != nil {
		logger.Warn("SIE parse rejected", slog.String("filename", filename), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("SIE file parsed",
		slog.String("filename", filename),
		slog.String("format", string(parsed.Format)),
		slog.Int("account_count", len(parsed.Accounts)),
		slog.Int("issue_count", len(parsed.Issues)),
	)
	return parsed, nil
}

func (s *importService) ValidateImport(ctx context.Context, organizationID string, parsed *sie.ParsedLedgerImport) (*dto.ImportValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result := &dto.ImportValidationResult{
		IsValid:      parsed.Valid(),
		Errors:       parsed.Issues,
		AccountCount: len(parsed.Accounts),
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	// Identity mismatch is advisory. The organization number is authoritative
	// when both sides carry one; otherwise the names are compared.
	mismatch := false
	if parsed.OrganizationNumber != "" && org.OrganizationNumber != "" {
		mismatch = parsed.OrganizationNumber != org.OrganizationNumber
	} else if parsed.CompanyName != "" {
		mismatch = parsed.CompanyName != org.Name
	}
	if mismatch {
		result.OrgMismatch = &dto.OrgMismatch{
			FileCompanyName:        parsed.CompanyName,
			FileOrganizationNumber: parsed.OrganizationNumber,
			CurrentName:            org.Name,
			CurrentOrgNumber:       org.OrganizationNumber,
		}
	}

	existing, err := s.accountRepo.ListAccountsByOrganization(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to list accounts for reconciliation", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}
	existingByNumber := make(map[string]bool, len(existing))
	for _, account := range existing {
		existingByNumber[account.AccountNumber] = true
	}

	for _, parsedAccount := range parsed.Accounts {
		result.Accounts = append(result.Accounts, dto.ReconciledAccount{
			AccountNumber: parsedAccount.AccountNumber,
			Name:          parsedAccount.Name,
			Exists:        existingByNumber[parsedAccount.AccountNumber],
		})
	}

	return result, nil
}

func (s *importService) ImportAccounts(ctx context.Context, organizationID string, parsed *sie.ParsedLedgerImport, opts dto.ImportOptions, userID string) (*dto.ImportReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report := &dto.ImportReport{}
	if !opts.ImportAccounts {
		return report, nil
	}
	if !parsed.Valid() {
		return nil, fmt.Errorf("%w: document has %d unresolved issues", apperrors.ErrValidation, len(parsed.Issues))
	}

	existing, err := s.accountRepo.ListAccountsByOrganization(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to list accounts before import", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}
	existingByNumber := make(map[string]bool, len(existing))
	for _, account := range existing {
		existingByNumber[account.AccountNumber] = true
	}

	now := time.Now().UTC()
	for _, parsedAccount := range parsed.Accounts {
		if existingByNumber[parsedAccount.AccountNumber] {
			if opts.SkipExisting {
				report.SkippedCount++
				continue
			}
			report.Failures = append(report.Failures, dto.ImportFailure{
				AccountNumber: parsedAccount.AccountNumber,
				Reason:        "account already exists",
			})
			continue
		}

		class := parsedAccount.Class
		if class == "" {
			derived, err := domain.AccountClassForNumber(parsedAccount.AccountNumber)
			if err != nil {
				report.Failures = append(report.Failures, dto.ImportFailure{
					AccountNumber: parsedAccount.AccountNumber,
					Reason:        err.Error(),
				})
				continue
			}
			class = derived
		} else if err := domain.ValidateNumberClass(parsedAccount.AccountNumber, class); err != nil {
			report.Failures = append(report.Failures, dto.ImportFailure{
				AccountNumber: parsedAccount.AccountNumber,
				Reason:        err.Error(),
			})
			continue
		}

		account := domain.Account{
			AccountID:      uuid.NewString(),
			OrganizationID: organizationID,
			AccountNumber:  parsedAccount.AccountNumber,
			Name:           parsedAccount.Name,
			NameLocalized:  parsedAccount.Name,
			AccountClass:   class,
			AccountType:    domain.Detail,
			IsActive:       true,
			IsSystem:       false,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			// A concurrent import may have won the insert; record and move on.
			reason := "storage error"
			if errors.Is(err, apperrors.ErrDuplicate) {
				reason = "account already exists"
			} else {
				logger.Error("Failed to save imported account", slog.String("error", err.Error()), slog.String("account_number", parsedAccount.AccountNumber))
			}
			report.Failures = append(report.Failures, dto.ImportFailure{
				AccountNumber: parsedAccount.AccountNumber,
				Reason:        reason,
			})
			continue
		}

		existingByNumber[parsedAccount.AccountNumber] = true
		report.ImportedCount++
	}

	logger.Info("Account import finished",
		slog.String("organization_id", organizationID),
		slog.Int("imported", report.ImportedCount),
		slog.Int("skipped", report.SkippedCount),
		slog.Int("failed", len(report.Failures)),
	)
	return report, nil
}

// buildExportDocument assembles the in-memory document shared by both export
// formats. Opening and closing balances are included for balance sheet
// accounts only, matching what the flat format records as #IB and #UB.
func (s *importService) buildExportDocument(ctx context.Context, organizationID, fiscalYearID string) (*sie.ParsedLedgerImport, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	fy, err := s.fyRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	accounts, err := s.accountRepo.ListAccountsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	doc := &sie.ParsedLedgerImport{
		CompanyName:        org.Name,
		OrganizationNumber: org.OrganizationNumber,
		FiscalYearStart:    fy.StartDate,
		FiscalYearEnd:      fy.EndDate,
	}

	afterEnd := fy.EndDate.AddDate(0, 0, 1)
	for _, account := range accounts {
		parsedAccount := sie.ParsedAccount{
			AccountNumber: account.AccountNumber,
			Name:          account.Name,
			Class:         account.AccountClass,
		}

		switch account.AccountClass {
		case domain.Assets, domain.Liabilities, domain.Equity:
			openDebit, openCredit, err := s.ledgerRepo.SumPostedAmountsBefore(ctx, organizationID, account.AccountID, fy.StartDate)
			if err != nil {
				return nil, err
			}
			closeDebit, closeCredit, err := s.ledgerRepo.SumPostedAmountsBefore(ctx, organizationID, account.AccountID, afterEnd)
			if err != nil {
				return nil, err
			}
			opening := openDebit.Sub(openCredit)
			closing := closeDebit.Sub(closeCredit)
			parsedAccount.OpeningBalance = &opening
			parsedAccount.ClosingBalance = &closing
		}

		doc.Accounts = append(doc.Accounts, parsedAccount)
	}

	return doc, nil
}

func (s *importService) ExportSIE4(ctx context.Context, organizationID, fiscalYearID string) ([]byte, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.buildExportDocument(ctx, organizationID, fiscalYearID)
	if err != nil {
		return nil, err
	}

	out, err := sie.MarshalSIE4(doc, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to marshal SIE4 export", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}

	logger.Info("SIE4 export produced", slog.String("fiscal_year_id", fiscalYearID), slog.Int("account_count", len(doc.Accounts)))
	return out, nil
}

func (s *importService) ExportSIE5(ctx context.Context, organizationID, fiscalYearID string) ([]byte, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.buildExportDocument(ctx, organizationID, fiscalYearID)
	if err != nil {
		return nil, err
	}

	out, err := sie.MarshalSIE5(doc)
	if err != nil {
		logger.Error("Failed to marshal SIE5 export", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}

	logger.Info("SIE5 export produced", slog.String("fiscal_year_id", fiscalYearID), slog.Int("account_count", len(doc.Accounts)))
	return out, nil
}
