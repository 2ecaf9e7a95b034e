package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts operations.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, organizationID, accountID, userID string) error
}
