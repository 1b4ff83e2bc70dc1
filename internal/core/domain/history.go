package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a history line is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// TransactionHistory is one double-entry ledger line produced by a completed
// transfer. Every completed transfer has exactly two: a DEBIT against the
// source for the total (amount + fee) and a CREDIT to the destination for the
// amount. The fee is not credited anywhere in this ledger; it models revenue
// leaving the two-account view, so debit.Amount == credit.Amount + fee.
// Rows are append-only and never mutated.
type TransactionHistory struct {
	EntryID       string          `json:"entryID"`       // Primary key (UUID)
	TransferID    string          `json:"transferID"`    // FK -> transfers.transfer_id
	AccountID     string          `json:"accountID"`     // Account this line affects
	EntryType     EntryType       `json:"entryType"`     // DEBIT or CREDIT
	Amount        decimal.Decimal `json:"amount"`        // Amount moved on this line
	BalanceBefore decimal.Decimal `json:"balanceBefore"` // Account balance before the line applied
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`  // BalanceBefore ± Amount per entry type
	CreatedAt     time.Time       `json:"createdAt"`
}
