package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry row.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// JournalEntry is the persistence shape of a journal entry header.
// VerificationNumber is NULL in storage while the entry is a draft; it maps
// to zero here.
type JournalEntry struct {
	EntryID            string      `json:"entryID"`
	OrganizationID     string      `json:"organizationID"`
	FiscalYearID       string      `json:"fiscalYearID"`
	VerificationNumber int64       `json:"verificationNumber"`
	EntryDate          time.Time   `json:"entryDate"`
	Description        string      `json:"description"`
	Status             EntryStatus `json:"status"`
	SourceType         string      `json:"sourceType"`
	PostedAt           *time.Time  `json:"postedAt"`
	OriginalEntryID    *string     `json:"originalEntryID"`
	ReversingEntryID   *string     `json:"reversingEntryID"`
	AuditFields
}

// JournalEntryLine is the persistence shape of one debit or credit row.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`

	// Joined from the header for ledger queries
	EntryDate          time.Time `json:"entryDate"`
	VerificationNumber int64     `json:"verificationNumber"`
	EntryDescription   string    `json:"entryDescription"`
}
