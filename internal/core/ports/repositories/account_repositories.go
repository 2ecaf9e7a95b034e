package repositories

import (
	"context"
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by ID, scoped to an organization.
	FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account ID.
	FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByNumber retrieves an account by its BAS number within an organization.
	FindAccountByNumber(ctx context.Context, organizationID, accountNumber string) (*domain.Account, error)

	// ListAccountsByOrganization retrieves every account of an organization,
	// ordered by account number. Used both for listing and as the consistent
	// snapshot duplicate detection reads before an import writes.
	ListAccountsByOrganization(ctx context.Context, organizationID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, organizationID, accountID, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
