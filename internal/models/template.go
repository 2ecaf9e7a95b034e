package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryTemplate is the persistence shape of a template header.
type JournalEntryTemplate struct {
	TemplateID         string     `json:"templateID"`
	OrganizationID     string     `json:"organizationID"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	DefaultDescription string     `json:"defaultDescription"`
	UseCount           int64      `json:"useCount"`
	LastUsedAt         *time.Time `json:"lastUsedAt"`
	AuditFields
}

// TemplateLine is the persistence shape of one template row.
type TemplateLine struct {
	TemplateID   string          `json:"templateID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`
}
