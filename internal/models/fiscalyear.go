package models

import "time"

// FiscalYear is the persistence shape of an accounting period. It carries the
// verification number counter allocated from during posting.
type FiscalYear struct {
	FiscalYearID           string     `json:"fiscalYearID"`
	OrganizationID         string     `json:"organizationID"`
	StartDate              time.Time  `json:"startDate"`
	EndDate                time.Time  `json:"endDate"`
	IsClosed               bool       `json:"isClosed"`
	ClosedAt               *time.Time `json:"closedAt"`
	NextVerificationNumber int64      `json:"nextVerificationNumber"`
	AuditFields
}
