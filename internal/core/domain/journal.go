package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
// Draft entries are mutable; Posted is terminal and immutable.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// EntrySource records how a journal entry came to exist.
type EntrySource string

const (
	SourceManual    EntrySource = "MANUAL"
	SourceImport    EntrySource = "IMPORT"
	SourceRecurring EntrySource = "RECURRING"
	SourceTemplate  EntrySource = "TEMPLATE"
)

// JournalEntry represents a single financial event composed of at least two
// lines. The verification number is assigned when the entry is posted and is
// unique and gap-free within its fiscal year.
type JournalEntry struct {
	EntryID        string `json:"entryID"`        // Primary Key (UUID)
	OrganizationID string `json:"organizationID"` // FK -> organizations.organization_id
	FiscalYearID   string `json:"fiscalYearID"`   // FK -> fiscal_years.fiscal_year_id
	// VerificationNumber is zero while the entry is a draft.
	VerificationNumber int64       `json:"verificationNumber"`
	EntryDate          time.Time   `json:"entryDate"` // Must fall within the fiscal year bounds
	Description        string      `json:"description"`
	Status             EntryStatus `json:"status"`
	SourceType         EntrySource `json:"sourceType"`
	PostedAt           *time.Time  `json:"postedAt"`
	// Reversal linkage: a reversing entry points at its original, and a
	// reversed original points at its reversing entry.
	OriginalEntryID  *string            `json:"originalEntryID,omitempty"`
	ReversingEntryID *string            `json:"reversingEntryID,omitempty"`
	Lines            []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is a single debit or credit against one account.
// Exactly one of DebitAmount/CreditAmount is non-zero; both are >= 0.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`  // Primary Key (UUID)
	EntryID      string          `json:"entryID"` // FK -> journal_entries.entry_id
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`

	// Denormalized from the owning entry when lines are read back for ledger
	// queries; zero values otherwise.
	EntryDate          time.Time `json:"entryDate,omitempty"`
	VerificationNumber int64     `json:"verificationNumber,omitempty"`
	EntryDescription   string    `json:"entryDescription,omitempty"`
}

// DebitTotal sums the debit side of a set of lines.
func DebitTotal(lines []JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// CreditTotal sums the credit side of a set of lines.
func CreditTotal(lines []JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}
