package mapping

import (
	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		OrganizationID: d.OrganizationID,
		AccountNumber:  d.AccountNumber,
		Name:           d.Name,
		NameLocalized:  d.NameLocalized,
		AccountClass:   models.AccountClass(d.AccountClass),
		AccountType:    models.AccountType(d.AccountType),
		IsActive:       d.IsActive,
		IsSystem:       d.IsSystem,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		OrganizationID: m.OrganizationID,
		AccountNumber:  m.AccountNumber,
		Name:           m.Name,
		NameLocalized:  m.NameLocalized,
		AccountClass:   domain.AccountClass(m.AccountClass),
		AccountType:    domain.AccountType(m.AccountType),
		IsActive:       m.IsActive,
		IsSystem:       m.IsSystem,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
