package repositories

// RepositoryProvider aggregates every repository the service layer needs.
type RepositoryProvider struct {
	OrganizationRepo OrganizationRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	FiscalYearRepo   FiscalYearRepositoryFacade
	JournalRepo      JournalRepositoryWithTx
	TemplateRepo     TemplateRepositoryFacade
}
