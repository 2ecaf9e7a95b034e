package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/dto"
	"github.com/klarbok/klarbok/internal/sie"
)

// ImportSvcFacade exposes the SIE import pipeline (parse, validate, import)
// and the symmetric export operations.
type ImportSvcFacade interface {
	// ParseFile decodes raw SIE bytes using the filename extension as the
	// format hint. Structural problems land in the result's issue list;
	// oversize input, timeouts and unknown extensions return an error.
	ParseFile(ctx context.Context, raw []byte, filename string) (*sie.ParsedLedgerImport, error)

	// ValidateImport checks a parsed document against the target organization:
	// structural validity, organization identity mismatch and per-account
	// duplicate classification.
	ValidateImport(ctx context.Context, organizationID string, parsed *sie.ParsedLedgerImport) (*dto.ImportValidationResult, error)

	// ImportAccounts writes the parsed accounts, honoring skip-existing, and
	// returns a per-row diagnostic report even on partial success.
	ImportAccounts(ctx context.Context, organizationID string, parsed *sie.ParsedLedgerImport, opts dto.ImportOptions, userID string) (*dto.ImportReport, error)

	// ExportSIE4 renders the organization's accounts and the fiscal year's
	// balances as a SIE4 flat file.
	ExportSIE4(ctx context.Context, organizationID, fiscalYearID string) ([]byte, error)

	// ExportSIE5 renders the same data as SIE5 XML.
	ExportSIE5(ctx context.Context, organizationID, fiscalYearID string) ([]byte, error)
}
