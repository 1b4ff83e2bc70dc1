package dto

import (
	"time"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest onboards a new account. Account creation is plumbing
// around the transfer core; defaults for limits come from configuration when
// the optional fields are omitted.
type CreateAccountRequest struct {
	AccountNumber  string           `json:"accountNumber" binding:"required,max=20"`
	HolderName     string           `json:"holderName" binding:"required,max=100"`
	CurrencyCode   string           `json:"currencyCode" binding:"omitempty,len=3"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	DailyLimit     *decimal.Decimal `json:"dailyLimit"`
	MinimumBalance *decimal.Decimal `json:"minimumBalance"`
}

// AccountResponse is the read model for an account.
type AccountResponse struct {
	AccountID        string          `json:"accountID"`
	AccountNumber    string          `json:"accountNumber"`
	HolderName       string          `json:"holderName"`
	Balance          decimal.Decimal `json:"balance"`
	CurrencyCode     string          `json:"currencyCode"`
	Status           string          `json:"status"`
	DailyLimit       decimal.Decimal `json:"dailyLimit"`
	DailyTransferred decimal.Decimal `json:"dailyTransferred"`
	MinimumBalance   decimal.Decimal `json:"minimumBalance"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its read model.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        a.AccountID,
		AccountNumber:    a.AccountNumber,
		HolderName:       a.HolderName,
		Balance:          a.Balance,
		CurrencyCode:     a.CurrencyCode,
		Status:           string(a.Status),
		DailyLimit:       a.DailyLimit,
		DailyTransferred: a.DailyTransferred,
		MinimumBalance:   a.MinimumBalance,
		CreatedAt:        a.CreatedAt,
	}
}
