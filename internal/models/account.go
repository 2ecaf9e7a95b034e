package models

// AccountClass mirrors the BAS class of an account.
type AccountClass string

// AccountType distinguishes postable accounts from grouping headers.
type AccountType string

// Account is the persistence shape of a chart-of-accounts entry.
type Account struct {
	AccountID      string       `json:"accountID"`
	OrganizationID string       `json:"organizationID"`
	AccountNumber  string       `json:"accountNumber"`
	Name           string       `json:"name"`
	NameLocalized  string       `json:"nameLocalized"`
	AccountClass   AccountClass `json:"accountClass"`
	AccountType    AccountType  `json:"accountType"`
	IsActive       bool         `json:"isActive"`
	IsSystem       bool         `json:"isSystem"`
	AuditFields
}
