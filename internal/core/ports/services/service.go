package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// OrganizationSvcFacade exposes organization identity lookups.
type OrganizationSvcFacade interface {
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	CreateOrganization(ctx context.Context, name, organizationNumber, creatorUserID string) (*domain.Organization, error)
}

// ServiceContainer aggregates every service facade for handler wiring.
type ServiceContainer struct {
	Organization OrganizationSvcFacade
	Account      AccountSvcFacade
	FiscalYear   FiscalYearSvcFacade
	Journal      JournalSvcFacade
	Ledger       LedgerSvcFacade
	Template     TemplateSvcFacade
	Import       ImportSvcFacade
}
