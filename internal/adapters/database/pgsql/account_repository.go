package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
	"github.com/quickpay/quickpay_backend/internal/models"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		AccountNumber:    d.AccountNumber,
		HolderName:       d.HolderName,
		Balance:          d.Balance,
		CurrencyCode:     d.CurrencyCode,
		Status:           models.AccountStatus(d.Status),
		DailyLimit:       d.DailyLimit,
		DailyTransferred: d.DailyTransferred,
		MinimumBalance:   d.MinimumBalance,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		LastUpdatedAt:    d.LastUpdatedAt,
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		AccountNumber:    m.AccountNumber,
		HolderName:       m.HolderName,
		Balance:          m.Balance,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.AccountStatus(m.Status),
		DailyLimit:       m.DailyLimit,
		DailyTransferred: m.DailyTransferred,
		MinimumBalance:   m.MinimumBalance,
		Version:          m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const accountColumns = `account_id, account_number, holder_name, balance, currency_code, status, daily_limit, daily_transferred, minimum_balance, version, created_at, last_updated_at`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := queryEngine(ctx, r.pool).Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.AccountNumber,
		modelAcc.HolderName,
		modelAcc.Balance,
		modelAcc.CurrencyCode,
		modelAcc.Status,
		modelAcc.DailyLimit,
		modelAcc.DailyTransferred,
		modelAcc.MinimumBalance,
		modelAcc.Version,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, modelAcc.AccountNumber)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1;
	`
	var modelAcc models.Account
	err := queryEngine(ctx, r.pool).QueryRow(ctx, query, accountID).Scan(
		&modelAcc.AccountID,
		&modelAcc.AccountNumber,
		&modelAcc.HolderName,
		&modelAcc.Balance,
		&modelAcc.CurrencyCode,
		&modelAcc.Status,
		&modelAcc.DailyLimit,
		&modelAcc.DailyTransferred,
		&modelAcc.MinimumBalance,
		&modelAcc.Version,
		&modelAcc.CreatedAt,
		&modelAcc.LastUpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	domainAcc := toDomainAccount(modelAcc)
	return &domainAcc, nil
}

// UpdateAccountWithVersion persists the mutable account fields conditioned on
// the version read at load time. The write bumps the version; zero rows
// affected means another writer got there first.
func (r *PgxAccountRepository) UpdateAccountWithVersion(ctx context.Context, account domain.Account, expectedVersion int64) error {
	modelAcc := toModelAccount(account)

	query := `
		UPDATE accounts
		SET balance = $1, daily_transferred = $2, status = $3, last_updated_at = $4, version = version + 1
		WHERE account_id = $5 AND version = $6;
	`
	tag, err := queryEngine(ctx, r.pool).Exec(ctx, query,
		modelAcc.Balance,
		modelAcc.DailyTransferred,
		modelAcc.Status,
		modelAcc.LastUpdatedAt,
		modelAcc.AccountID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", modelAcc.AccountID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s changed since version %d", apperrors.ErrVersionConflict, modelAcc.AccountID, expectedVersion)
	}
	return nil
}

// CountAccounts returns the total number of accounts.
func (r *PgxAccountRepository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := queryEngine(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM accounts;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}
