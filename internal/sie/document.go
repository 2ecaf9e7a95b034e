// Package sie implements parsing and generation of the Swedish SIE
// accounting interchange formats: SIE4 (line oriented, "PC8" code page) and
// SIE5 (XML). Both branches normalize into the same ParsedLedgerImport shape
// so downstream validation and import logic stay format agnostic.
package sie

import (
	"fmt"
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Format identifies which SIE dialect a document was parsed from.
type Format string

const (
	FormatSIE4 Format = "SIE4"
	FormatSIE5 Format = "SIE5"
)

// ParsedAccount is one account record from a SIE document. Balances are nil
// when the document carried no #IB/#UB (or OpeningBalance) for the account.
type ParsedAccount struct {
	AccountNumber  string
	Name           string
	Class          domain.AccountClass // Empty unless the document declared a type (SIE5)
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
}

// Issue is one structural or validation problem found while parsing.
// Line is zero when the problem is not tied to a specific line.
type Issue struct {
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// ParsedLedgerImport is the transient result of parsing a SIE document. It is
// produced by the parser, consumed once by the import validator, and never
// persisted.
type ParsedLedgerImport struct {
	Format             Format
	CompanyName        string
	OrganizationNumber string
	FiscalYearStart    time.Time
	FiscalYearEnd      time.Time
	Accounts           []ParsedAccount
	Issues             []Issue
}

// Valid reports whether parsing finished without structural problems.
func (p *ParsedLedgerImport) Valid() bool {
	return len(p.Issues) == 0
}

func (p *ParsedLedgerImport) addIssue(line int, format string, args ...any) {
	p.Issues = append(p.Issues, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}
