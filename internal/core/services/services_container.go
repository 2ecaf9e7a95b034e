package services

import (
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Organization = NewOrganizationService(repos.OrganizationRepo)

	// Account service first since journal and template services depend on it
	container.Account = NewAccountService(repos.AccountRepo)

	container.FiscalYear = NewFiscalYearService(repos.FiscalYearRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.FiscalYearRepo, container.Account)
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo, repos.FiscalYearRepo)
	container.Template = NewTemplateService(repos.TemplateRepo, container.Account)
	container.Import = NewImportService(
		cfg.SIEMaxImportBytes,
		cfg.SIEParseTimeout,
		repos.OrganizationRepo,
		repos.AccountRepo,
		repos.FiscalYearRepo,
		repos.JournalRepo,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.OrganizationSvcFacade = (*organizationService)(nil)
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.FiscalYearSvcFacade   = (*fiscalYearService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
	_ portssvc.TemplateSvcFacade     = (*templateService)(nil)
	_ portssvc.ImportSvcFacade       = (*importService)(nil)
)
