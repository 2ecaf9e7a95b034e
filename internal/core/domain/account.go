package domain

import (
	"fmt"
	"strings"
)

// AccountClass defines the fundamental accounting class of an account,
// following the BAS chart conventions.
type AccountClass string

const (
	Assets      AccountClass = "ASSETS"
	Liabilities AccountClass = "LIABILITIES"
	Equity      AccountClass = "EQUITY"
	Revenue     AccountClass = "REVENUE"
	Expenses    AccountClass = "EXPENSES"
)

// AccountType distinguishes postable accounts from grouping headers.
type AccountType string

const (
	Detail  AccountType = "DETAIL"
	Heading AccountType = "HEADING"
)

// Account represents a chart-of-accounts entry within an organization.
// AccountNumber follows the four digit BAS convention and is unique per
// organization.
type Account struct {
	AccountID      string       `json:"accountID"`      // Primary Key (UUID)
	OrganizationID string       `json:"organizationID"` // FK -> organizations.organization_id
	AccountNumber  string       `json:"accountNumber"`  // Four digits, e.g. "1510"
	Name           string       `json:"name"`
	NameLocalized  string       `json:"nameLocalized"` // Swedish display name, may equal Name
	AccountClass   AccountClass `json:"accountClass"`
	AccountType    AccountType  `json:"accountType"`
	IsActive       bool         `json:"isActive"`
	IsSystem       bool         `json:"isSystem"` // Seeded accounts: number and class are immutable
	AuditFields
}

// AccountClassForNumber derives the BAS account class from the leading digits
// of a four digit account number. 1xxx are assets, 20xx equity, 2xxx
// liabilities, 3xxx revenue and 4xxx-8xxx expenses.
func AccountClassForNumber(number string) (AccountClass, error) {
	if len(number) != 4 {
		return "", fmt.Errorf("account number %q must be exactly four digits", number)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("account number %q must be exactly four digits", number)
		}
	}
	switch number[0] {
	case '1':
		return Assets, nil
	case '2':
		if strings.HasPrefix(number, "20") {
			return Equity, nil
		}
		return Liabilities, nil
	case '3':
		return Revenue, nil
	case '4', '5', '6', '7', '8':
		return Expenses, nil
	default:
		return "", fmt.Errorf("account number %q is outside the BAS classes 1-8", number)
	}
}

// ValidateNumberClass checks that an account's class matches its number prefix.
func ValidateNumberClass(number string, class AccountClass) error {
	derived, err := AccountClassForNumber(number)
	if err != nil {
		return err
	}
	if derived != class {
		return fmt.Errorf("account number %s implies class %s, not %s", number, derived, class)
	}
	return nil
}
