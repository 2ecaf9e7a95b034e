package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryTemplate captures the line shape of a journal entry so it can be
// rehydrated into new drafts. Templates keep no back-reference to the entries
// created from them and are deletable independently.
type JournalEntryTemplate struct {
	TemplateID         string         `json:"templateID"`     // Primary Key (UUID)
	OrganizationID     string         `json:"organizationID"` // FK -> organizations.organization_id
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	DefaultDescription string         `json:"defaultDescription"` // Pre-filled entry description
	UseCount           int64          `json:"useCount"`
	LastUsedAt         *time.Time     `json:"lastUsedAt"`
	Lines              []TemplateLine `json:"lines,omitempty"`
	AuditFields
}

// TemplateLine mirrors a journal entry line. Amounts are zero when the
// template was captured structure-only.
type TemplateLine struct {
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`
}
