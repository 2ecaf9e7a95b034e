package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/klarbok/klarbok/internal/apperrors"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/dto"
	"github.com/klarbok/klarbok/internal/middleware"
	"github.com/shopspring/decimal"
)

var ErrLedgerRangeInverted = errors.New("ledger range end must not precede its start")

// ledgerService derives general ledger reports from posted lines. It writes
// nothing; every balance is recomputed from the journal on each call.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerReader
	accountRepo portsrepo.AccountReader
	fyRepo      portsrepo.FiscalYearReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountReader, fyRepo portsrepo.FiscalYearReader) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, accountRepo: accountRepo, fyRepo: fyRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetLedger(ctx context.Context, organizationID, accountID string, params dto.LedgerParams) (*dto.LedgerReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: %s to %s", ErrLedgerRangeInverted, params.From.Format("2006-01-02"), params.To.Format("2006-01-02"))
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to resolve ledger account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	from, to := params.From, params.To
	if params.FiscalYearID != "" {
		fy, err := s.fyRepo.FindFiscalYearByID(ctx, params.FiscalYearID)
		if err != nil {
			return nil, err
		}
		if fy.OrganizationID != organizationID {
			return nil, apperrors.ErrNotFound
		}
		// Entry dates never leave their fiscal year, so clamping the range to
		// the year bounds excludes every other year's lines.
		if fy.StartDate.After(from) {
			from = fy.StartDate
		}
		if fy.EndDate.Before(to) {
			to = fy.EndDate
		}
	}

	// Opening balance is the debit-positive sum of everything posted before
	// the range, regardless of account class.
	openingDebit, openingCredit, err := s.ledgerRepo.SumPostedAmountsBefore(ctx, organizationID, accountID, from)
	if err != nil {
		logger.Error("Failed to sum opening balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}
	openingBalance := openingDebit.Sub(openingCredit)

	lines, err := s.ledgerRepo.FindPostedLinesByAccountAndRange(ctx, organizationID, accountID, from, to)
	if err != nil {
		logger.Error("Failed to load ledger lines", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	report := &dto.LedgerReport{
		AccountID:      accountID,
		From:           from,
		To:             to,
		OpeningBalance: openingBalance,
	}

	running := openingBalance
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		running = running.Add(line.DebitAmount).Sub(line.CreditAmount)
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
		report.Lines = append(report.Lines, dto.LedgerLineResponse{
			EntryID:            line.EntryID,
			VerificationNumber: line.VerificationNumber,
			EntryDate:          line.EntryDate,
			Description:        line.EntryDescription,
			DebitAmount:        line.DebitAmount,
			CreditAmount:       line.CreditAmount,
			RunningBalance:     running,
		})
	}

	// Closing balance equals opening plus period debits minus period credits;
	// it is also the last running balance when the range has lines.
	report.Totals = dto.LedgerTotals{
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		ClosingBalance: running,
	}

	logger.Debug("Ledger computed", slog.String("account_id", accountID), slog.Int("line_count", len(report.Lines)))
	return report, nil
}
