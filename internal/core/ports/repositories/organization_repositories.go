package repositories

import (
	"context"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// OrganizationReader defines read operations for organization identity data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves an organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data.
type OrganizationWriter interface {
	// SaveOrganization inserts a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
