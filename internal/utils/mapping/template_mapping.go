package mapping

import (
	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/models"
)

// ToModelTemplate converts a domain template header to its model shape
func ToModelTemplate(d domain.JournalEntryTemplate) models.JournalEntryTemplate {
	return models.JournalEntryTemplate{
		TemplateID:         d.TemplateID,
		OrganizationID:     d.OrganizationID,
		Name:               d.Name,
		Description:        d.Description,
		DefaultDescription: d.DefaultDescription,
		UseCount:           d.UseCount,
		LastUsedAt:         d.LastUsedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemplate converts a model template header to its domain shape.
// Lines are attached separately by the repository.
func ToDomainTemplate(m models.JournalEntryTemplate) domain.JournalEntryTemplate {
	return domain.JournalEntryTemplate{
		TemplateID:         m.TemplateID,
		OrganizationID:     m.OrganizationID,
		Name:               m.Name,
		Description:        m.Description,
		DefaultDescription: m.DefaultDescription,
		UseCount:           m.UseCount,
		LastUsedAt:         m.LastUsedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTemplateLine converts a model template line to its domain shape
func ToDomainTemplateLine(m models.TemplateLine) domain.TemplateLine {
	return domain.TemplateLine{
		AccountID:    m.AccountID,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		LineOrder:    m.LineOrder,
	}
}
