package accounting

import (
	"fmt"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateLineAmounts checks that a line carries exactly one positive side.
// Every line is either a debit or a credit, never both and never neither.
func ValidateLineAmounts(line domain.JournalEntryLine) error {
	debitSet := line.DebitAmount.IsPositive()
	creditSet := line.CreditAmount.IsPositive()

	if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
		return fmt.Errorf("amounts must not be negative on line for account %s", line.AccountID)
	}
	if debitSet && creditSet {
		return fmt.Errorf("line for account %s has both a debit and a credit amount", line.AccountID)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("line for account %s has neither a debit nor a credit amount", line.AccountID)
	}
	return nil
}

// BalanceDelta returns total debits minus total credits for a set of lines.
// A balanced entry yields exactly zero.
func BalanceDelta(lines []domain.JournalEntryLine) decimal.Decimal {
	return domain.DebitTotal(lines).Sub(domain.CreditTotal(lines))
}

// ValidateEntryBalance checks the double-entry invariants for a set of lines:
// at least two lines, exactly one positive side per line, and total debits
// equal to total credits.
func ValidateEntryBalance(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines")
	}

	for _, line := range lines {
		if err := ValidateLineAmounts(line); err != nil {
			return err
		}
	}

	if delta := BalanceDelta(lines); !delta.IsZero() {
		return fmt.Errorf("entry does not balance: debits minus credits is %s", delta.String())
	}

	return nil
}

// SignedAmount converts a line to the debit-positive ledger convention:
// debits increase the balance, credits decrease it, regardless of account
// class. Asset and expense accounts therefore run positive, liability,
// equity and revenue accounts run negative.
func SignedAmount(line domain.JournalEntryLine) decimal.Decimal {
	return line.DebitAmount.Sub(line.CreditAmount)
}
