// Package seed loads demo accounts into an empty database so the API can be
// exercised immediately in development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
	"github.com/quickpay/quickpay_backend/internal/core/services"
)

type demoAccount struct {
	number  string
	holder  string
	balance int64
}

var demoAccounts = []demoAccount{
	{number: "ACC123456", holder: "Alice Johnson", balance: 50000},
	{number: "ACC987654", holder: "Bob Williams", balance: 30000},
	{number: "ACC555777", holder: "Charlie Brown", balance: 15000},
}

// DemoData inserts the demo accounts when the accounts table is empty. It is
// a no-op on a populated database so restarts never duplicate data.
func DemoData(ctx context.Context, repo portsrepo.AccountRepository, defaults services.AccountDefaults, logger *slog.Logger) error {
	count, err := repo.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count accounts before seeding: %w", err)
	}
	if count > 0 {
		logger.Info("Skipping demo data, accounts already present", slog.Int64("count", count))
		return nil
	}

	now := time.Now().UTC()
	for _, demo := range demoAccounts {
		account := domain.Account{
			AccountID:        uuid.NewString(),
			AccountNumber:    demo.number,
			HolderName:       demo.holder,
			Balance:          decimal.NewFromInt(demo.balance),
			CurrencyCode:     defaults.CurrencyCode,
			Status:           domain.StatusActive,
			DailyLimit:       defaults.DailyLimit,
			DailyTransferred: decimal.Zero,
			MinimumBalance:   defaults.MinimumBalance,
			Version:          0,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := repo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", demo.number, err)
		}
		logger.Info("Seeded demo account",
			slog.String("account_id", account.AccountID),
			slog.String("account_number", account.AccountNumber),
			slog.String("balance", account.Balance.String()))
	}
	return nil
}
