package repositories

import (
	"context"
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal year data.
type FiscalYearReader interface {
	// FindFiscalYearByID retrieves a fiscal year with its verification counter.
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// FindFiscalYearForDate retrieves the fiscal year containing the given date.
	FindFiscalYearForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalYear, error)

	// ListFiscalYearsByOrganization retrieves fiscal years ordered by start date.
	ListFiscalYearsByOrganization(ctx context.Context, organizationID string) ([]domain.FiscalYear, error)
}

// FiscalYearWriter defines write operations for fiscal year data.
type FiscalYearWriter interface {
	// SaveFiscalYear inserts a new fiscal year.
	SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error

	// CloseFiscalYear marks a fiscal year closed. Closed years reject any
	// journal entry mutation within their bounds.
	CloseFiscalYear(ctx context.Context, fiscalYearID, userID string, closedAt time.Time) error
}

// FiscalYearRepositoryFacade combines all fiscal year repository interfaces.
type FiscalYearRepositoryFacade interface {
	FiscalYearReader
	FiscalYearWriter
}
