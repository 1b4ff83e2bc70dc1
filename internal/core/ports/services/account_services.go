package services

import (
	"context"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/quickpay/quickpay_backend/internal/dto"
)

// AccountSvcFacade exposes account onboarding and read operations.
// Accounts are created out-of-band of the transfer core and never deleted.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListHistoryByAccount(ctx context.Context, accountID string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error)
}
