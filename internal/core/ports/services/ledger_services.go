package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/dto"
)

// LedgerSvcFacade exposes general ledger reporting.
type LedgerSvcFacade interface {
	// GetLedger computes opening balance, running balances and period totals
	// for one account over a date range, from posted lines only.
	GetLedger(ctx context.Context, organizationID, accountID string, params dto.LedgerParams) (*dto.LedgerReport, error)
}
