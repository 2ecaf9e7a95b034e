package domain

// Organization represents a bookkeeping entity owning accounts, fiscal years
// and journal entries. All queries in this core are scoped to one organization;
// there is no ambient "current organization" state.
type Organization struct {
	OrganizationID     string `json:"organizationID"`     // Primary Key (UUID)
	Name               string `json:"name"`               // Legal name, e.g. "Kakelspecialisten AB"
	OrganizationNumber string `json:"organizationNumber"` // Swedish org number "NNNNNN-NNNN", may be empty
	IsActive           bool   `json:"isActive"`
	AuditFields
}
