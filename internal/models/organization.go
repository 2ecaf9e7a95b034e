package models

// Organization is the persistence shape of a bookkeeping entity.
type Organization struct {
	OrganizationID     string `json:"organizationID"`
	Name               string `json:"name"`
	OrganizationNumber string `json:"organizationNumber"`
	IsActive           bool   `json:"isActive"`
	AuditFields
}
