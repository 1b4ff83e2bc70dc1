package dto

import (
	"time"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListHistoryParams holds pagination parameters for the history listing.
type ListHistoryParams struct {
	Limit     int
	NextToken *string
}

// HistoryEntryResponse is the read model for one double-entry ledger line.
type HistoryEntryResponse struct {
	EntryID       string          `json:"entryID"`
	TransferID    string          `json:"transferID"`
	AccountID     string          `json:"accountID"`
	EntryType     string          `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListHistoryResponse is a page of history lines plus the next-page token.
type ListHistoryResponse struct {
	Entries   []HistoryEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToHistoryEntryResponse converts a domain.TransactionHistory line.
func ToHistoryEntryResponse(e *domain.TransactionHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		EntryID:       e.EntryID,
		TransferID:    e.TransferID,
		AccountID:     e.AccountID,
		EntryType:     string(e.EntryType),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		CreatedAt:     e.CreatedAt,
	}
}

// ToHistoryEntryResponses converts a slice of history lines.
func ToHistoryEntryResponses(entries []domain.TransactionHistory) []HistoryEntryResponse {
	responses := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToHistoryEntryResponse(&e)
	}
	return responses
}
