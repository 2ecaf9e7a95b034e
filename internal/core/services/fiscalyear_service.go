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
)

var (
	ErrFiscalYearInverted = errors.New("fiscal year end date must not precede its start date")
	ErrFiscalYearOverlap  = errors.New("fiscal year overlaps an existing fiscal year")
	ErrAlreadyClosed      = errors.New("fiscal year is already closed")
)

type fiscalYearService struct {
	fyRepo portsrepo.FiscalYearRepositoryFacade
}

// NewFiscalYearService creates a new fiscal year service.
func NewFiscalYearService(fyRepo portsrepo.FiscalYearRepositoryFacade) portssvc.FiscalYearSvcFacade {
	return &fiscalYearService{fyRepo: fyRepo}
}

var _ portssvc.FiscalYearSvcFacade = (*fiscalYearService)(nil)

func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, organizationID string, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: %s ends before %s", ErrFiscalYearInverted, req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}

	// Overlap check against the organization's existing years. The unique
	// constraint on (organization_id, start_date) catches exact duplicates;
	// partial overlaps must be rejected here.
	existing, err := s.fyRepo.ListFiscalYearsByOrganization(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to list fiscal years for overlap check", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	now := time.Now().UTC()
	fy := domain.FiscalYear{
		FiscalYearID:           uuid.NewString(),
		OrganizationID:         organizationID,
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		IsClosed:               false,
		NextVerificationNumber: 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	for _, other := range existing {
		if fy.Overlaps(other) {
			return nil, fmt.Errorf("%w: %s to %s intersects %s to %s", ErrFiscalYearOverlap,
				fy.StartDate.Format("2006-01-02"), fy.EndDate.Format("2006-01-02"),
				other.StartDate.Format("2006-01-02"), other.EndDate.Format("2006-01-02"))
		}
	}

	if err := s.fyRepo.SaveFiscalYear(ctx, fy); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a fiscal year starting %s already exists", apperrors.ErrDuplicate, fy.StartDate.Format("2006-01-02"))
		}
		logger.Error("Failed to save fiscal year in repository", slog.String("error", err.Error()), slog.String("fiscal_year_id", fy.FiscalYearID))
		return nil, err
	}

	logger.Info("Fiscal year created", slog.String("fiscal_year_id", fy.FiscalYearID))
	return &fy, nil
}

func (s *fiscalYearService) GetFiscalYearByID(ctx context.Context, organizationID, fiscalYearID string) (*domain.FiscalYear, error) {
	fy, err := s.fyRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return fy, nil
}

func (s *fiscalYearService) ListFiscalYears(ctx context.Context, organizationID string) ([]domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	years, err := s.fyRepo.ListFiscalYearsByOrganization(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to list fiscal years from repository", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}
	if years == nil {
		return []domain.FiscalYear{}, nil
	}
	return years, nil
}

func (s *fiscalYearService) CloseFiscalYear(ctx context.Context, organizationID, fiscalYearID, userID string) (*domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fy, err := s.GetFiscalYearByID(ctx, organizationID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("%w: closed at %s", ErrAlreadyClosed, fy.ClosedAtRFC3339())
	}

	closedAt := time.Now().UTC()
	if err := s.fyRepo.CloseFiscalYear(ctx, fiscalYearID, userID, closedAt); err != nil {
		logger.Error("Failed to close fiscal year in repository", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}

	fy.IsClosed = true
	fy.ClosedAt = &closedAt
	fy.LastUpdatedAt = closedAt
	fy.LastUpdatedBy = userID

	logger.Info("Fiscal year closed", slog.String("fiscal_year_id", fiscalYearID))
	return fy, nil
}
