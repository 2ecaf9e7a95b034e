package mapping

import (
	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID:     d.OrganizationID,
		Name:               d.Name,
		OrganizationNumber: d.OrganizationNumber,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID:     m.OrganizationID,
		Name:               m.Name,
		OrganizationNumber: m.OrganizationNumber,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
