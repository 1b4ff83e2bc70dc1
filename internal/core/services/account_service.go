package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/dto"
	"github.com/quickpay/quickpay_backend/internal/middleware"
)

// AccountDefaults supplies policy defaults applied when onboarding requests
// omit the optional fields.
type AccountDefaults struct {
	CurrencyCode   string
	DailyLimit     decimal.Decimal
	MinimumBalance decimal.Decimal
}

// DefaultAccountDefaults returns the reference onboarding defaults.
func DefaultAccountDefaults() AccountDefaults {
	return AccountDefaults{
		CurrencyCode:   "USD",
		DailyLimit:     decimal.NewFromInt(10000),
		MinimumBalance: decimal.NewFromInt(100),
	}
}

// accountService provides account onboarding and read operations. Balances
// are mutated exclusively by the transfer orchestrator; this service never
// touches them after creation.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	defaults    AccountDefaults
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, defaults AccountDefaults) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		defaults:    defaults,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount onboards a new ACTIVE account.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrValidation)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaults.CurrencyCode
	}
	dailyLimit := s.defaults.DailyLimit
	if req.DailyLimit != nil {
		if req.DailyLimit.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: daily limit must be positive", apperrors.ErrValidation)
		}
		dailyLimit = *req.DailyLimit
	}
	minimumBalance := s.defaults.MinimumBalance
	if req.MinimumBalance != nil {
		if req.MinimumBalance.IsNegative() {
			return nil, fmt.Errorf("%w: minimum balance must not be negative", apperrors.ErrValidation)
		}
		minimumBalance = *req.MinimumBalance
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		AccountNumber:    req.AccountNumber,
		HolderName:       req.HolderName,
		Balance:          req.InitialBalance,
		CurrencyCode:     currency,
		Status:           domain.StatusActive,
		DailyLimit:       dailyLimit,
		DailyTransferred: decimal.Zero,
		MinimumBalance:   minimumBalance,
		Version:          0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create account %s: %w", req.AccountNumber, err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account",
				slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListHistoryByAccount returns a page of the account's double-entry history.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) ListHistoryByAccount(ctx context.Context, accountID string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Confirm the account exists so a bad id is a 404, not an empty page.
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListHistoryByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list history for account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve history: %w", err)
	}

	resp := &dto.ListHistoryResponse{
		Entries:   dto.ToHistoryEntryResponses(entries),
		NextToken: nextToken,
	}

	logger.Debug("History listed for account", slog.String("account_id", accountID), slog.Int("count", len(entries)))
	return resp, nil
}
