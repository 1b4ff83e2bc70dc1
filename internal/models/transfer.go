package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus mirrors domain.TransferStatus for the persistence layer.
type TransferStatus string

// Transfer is the database representation of a transfer record.
type Transfer struct {
	TransferID    string          `db:"transfer_id"`
	Reference     string          `db:"reference"`
	SourceID      string          `db:"source_account_id"`
	DestinationID string          `db:"destination_account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Fee           decimal.Decimal `db:"fee"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	CurrencyCode  string          `db:"currency_code"`
	Status        TransferStatus  `db:"status"`
	RiskScore     decimal.Decimal `db:"risk_score"`
	Description   string          `db:"description"`
	Remarks       string          `db:"remarks"`
	CreatedAt     time.Time       `db:"created_at"`
	CompletedAt   *time.Time      `db:"completed_at"`
}
