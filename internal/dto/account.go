package dto

import (
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts entry.
type CreateAccountRequest struct {
	AccountNumber string             `json:"accountNumber" binding:"required,basaccount"`
	Name          string             `json:"name" binding:"required"`
	NameLocalized string             `json:"nameLocalized"`
	AccountClass  domain.AccountClass `json:"accountClass" binding:"required,oneof=ASSETS LIABILITIES EQUITY REVENUE EXPENSES"`
	AccountType   domain.AccountType  `json:"accountType" binding:"omitempty,oneof=DETAIL HEADING"`
}

// UpdateAccountRequest defines the payload for updating an account.
// Number and class of system accounts are immutable and rejected server-side.
type UpdateAccountRequest struct {
	Name          *string `json:"name"`
	NameLocalized *string `json:"nameLocalized"`
	IsActive      *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string              `json:"accountID"`
	AccountNumber string              `json:"accountNumber"`
	Name          string              `json:"name"`
	NameLocalized string              `json:"nameLocalized"`
	AccountClass  domain.AccountClass `json:"accountClass"`
	AccountType   domain.AccountType  `json:"accountType"`
	IsActive      bool                `json:"isActive"`
	IsSystem      bool                `json:"isSystem"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		NameLocalized: a.NameLocalized,
		AccountClass:  a.AccountClass,
		AccountType:   a.AccountType,
		IsActive:      a.IsActive,
		IsSystem:      a.IsSystem,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
