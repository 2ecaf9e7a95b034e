package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerParams bounds a general ledger query to a date range. FiscalYearID is
// optional; when set, lines outside that fiscal year are excluded.
type LedgerParams struct {
	From         time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To           time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	FiscalYearID string    `form:"fiscalYearID"`
}

// LedgerLineResponse is one posted line in a ledger report, carrying the
// running balance after the line.
type LedgerLineResponse struct {
	EntryID            string          `json:"entryID"`
	VerificationNumber int64           `json:"verificationNumber"`
	EntryDate          time.Time       `json:"entryDate"`
	Description        string          `json:"description"`
	DebitAmount        decimal.Decimal `json:"debitAmount"`
	CreditAmount       decimal.Decimal `json:"creditAmount"`
	RunningBalance     decimal.Decimal `json:"runningBalance"`
}

// LedgerTotals aggregates a ledger report. The identity
// ClosingBalance == OpeningBalance + TotalDebit - TotalCredit holds exactly.
type LedgerTotals struct {
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// LedgerReport is the result of a general ledger query for one account.
// Balances are debit positive for every account class.
type LedgerReport struct {
	AccountID      string               `json:"accountID"`
	From           time.Time            `json:"from"`
	To             time.Time            `json:"to"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
	Totals         LedgerTotals         `json:"totals"`
}
