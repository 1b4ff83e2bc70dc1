package dto

import (
	"time"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest is the inbound payload for initiating a transfer.
// Reference is optional: when a client supplies one and a transfer with that
// reference already exists, the stored outcome is returned instead of
// re-applying the transfer.
type TransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	Description          string          `json:"description" binding:"max=255"`
	Reference            string          `json:"reference" binding:"max=50"`
}

// TransferResult is the outbound result of a resolved transfer attempt.
type TransferResult struct {
	TransferReference        string          `json:"transferReference"`
	Status                   string          `json:"status"`
	SourceAccountID          string          `json:"sourceAccountID"`
	DestinationAccountID     string          `json:"destinationAccountID"`
	Amount                   decimal.Decimal `json:"amount"`
	Fee                      decimal.Decimal `json:"fee"`
	TotalAmount              decimal.Decimal `json:"totalAmount"`
	SourceBalanceBefore      decimal.Decimal `json:"sourceBalanceBefore"`
	SourceBalanceAfter       decimal.Decimal `json:"sourceBalanceAfter"`
	DestinationBalanceBefore decimal.Decimal `json:"destinationBalanceBefore"`
	DestinationBalanceAfter  decimal.Decimal `json:"destinationBalanceAfter"`
	CompletedAt              *time.Time      `json:"completedAt"`
	Message                  string          `json:"message"`
}

// TransferResponse is the read model for a stored transfer record.
type TransferResponse struct {
	Reference     string          `json:"reference"`
	SourceID      string          `json:"sourceAccountID"`
	DestinationID string          `json:"destinationAccountID"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	Status        string          `json:"status"`
	RiskScore     decimal.Decimal `json:"riskScore"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
}

// ToTransferResponse converts a domain.Transfer to its read model.
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		Reference:     t.Reference,
		SourceID:      t.SourceID,
		DestinationID: t.DestinationID,
		Amount:        t.Amount,
		Fee:           t.Fee,
		TotalAmount:   t.TotalAmount,
		CurrencyCode:  t.CurrencyCode,
		Status:        string(t.Status),
		RiskScore:     t.RiskScore,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
}
