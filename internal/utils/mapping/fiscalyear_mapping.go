package mapping

import (
	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/models"
)

// ToModelFiscalYear converts a domain FiscalYear to a model FiscalYear
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID:           d.FiscalYearID,
		OrganizationID:         d.OrganizationID,
		StartDate:              d.StartDate,
		EndDate:                d.EndDate,
		IsClosed:               d.IsClosed,
		ClosedAt:               d.ClosedAt,
		NextVerificationNumber: d.NextVerificationNumber,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear to a domain FiscalYear
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID:           m.FiscalYearID,
		OrganizationID:         m.OrganizationID,
		StartDate:              m.StartDate,
		EndDate:                m.EndDate,
		IsClosed:               m.IsClosed,
		ClosedAt:               m.ClosedAt,
		NextVerificationNumber: m.NextVerificationNumber,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFiscalYearSlice converts a slice of model FiscalYears to domain FiscalYears
func ToDomainFiscalYearSlice(ms []models.FiscalYear) []domain.FiscalYear {
	ds := make([]domain.FiscalYear, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFiscalYear(m)
	}
	return ds
}
