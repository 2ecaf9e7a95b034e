package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	fiscalYearRepo := newPgxFiscalYearRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	templateRepo := newPgxTemplateRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		AccountRepo:      accountRepo,
		FiscalYearRepo:   fiscalYearRepo,
		JournalRepo:      journalRepo,
		TemplateRepo:     templateRepo,
	}
}
