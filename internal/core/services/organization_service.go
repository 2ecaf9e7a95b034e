package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/middleware"
)

type organizationService struct {
	orgRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find organization in repository", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return org, nil
}

func (s *organizationService) CreateOrganization(ctx context.Context, name, organizationNumber, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, apperrors.NewAppError(400, "organization name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID:     uuid.NewString(),
		Name:               name,
		OrganizationNumber: organizationNumber,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization in repository", slog.String("error", err.Error()), slog.String("organization_id", org.OrganizationID))
		return nil, err
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID))
	return &org, nil
}
