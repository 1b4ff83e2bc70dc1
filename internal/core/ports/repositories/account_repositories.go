package repositories

import (
	"context"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate if the
	// account ID or number already exists.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID retrieves an account by its ID.
	// Returns apperrors.ErrNotFound if no such account exists.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// UpdateAccountWithVersion persists a mutated account conditioned on the
	// version read at load time. The stored row's version must still equal
	// expectedVersion; on success the stored version is incremented by one.
	// Returns apperrors.ErrVersionConflict when the condition fails.
	UpdateAccountWithVersion(ctx context.Context, account domain.Account, expectedVersion int64) error

	// CountAccounts returns the total number of accounts. Used by demo seeding
	// to decide whether bootstrap data is needed.
	CountAccounts(ctx context.Context) (int64, error)
}
