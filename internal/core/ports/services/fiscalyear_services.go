package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/dto"
)

// FiscalYearSvcFacade exposes fiscal year lifecycle operations.
type FiscalYearSvcFacade interface {
	CreateFiscalYear(ctx context.Context, organizationID string, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error)
	GetFiscalYearByID(ctx context.Context, organizationID, fiscalYearID string) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context, organizationID string) ([]domain.FiscalYear, error)
	CloseFiscalYear(ctx context.Context, organizationID, fiscalYearID, userID string) (*domain.FiscalYear, error)
}
