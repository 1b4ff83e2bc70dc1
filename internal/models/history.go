package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType mirrors domain.EntryType for the persistence layer.
type EntryType string

// TransactionHistory is the database representation of a double-entry line.
type TransactionHistory struct {
	EntryID       string          `db:"entry_id"`
	TransferID    string          `db:"transfer_id"`
	AccountID     string          `db:"account_id"`
	EntryType     EntryType       `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	CreatedAt     time.Time       `db:"created_at"`
}
