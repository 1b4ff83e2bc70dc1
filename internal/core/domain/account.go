package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle status of an account. Only ACTIVE accounts
// may take part in a transfer, on either side.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
	StatusFrozen   AccountStatus = "FROZEN"
	StatusClosed   AccountStatus = "CLOSED"
)

// Account represents a ledger account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID        string          `json:"accountID"`        // Primary key (UUID)
	AccountNumber    string          `json:"accountNumber"`    // Human-facing, unique
	HolderName       string          `json:"holderName"`       // Account holder label
	Balance          decimal.Decimal `json:"balance"`          // Current balance, exact decimal
	CurrencyCode     string          `json:"currencyCode"`     // ISO 4217 code
	Status           AccountStatus   `json:"status"`           // ACTIVE, INACTIVE, FROZEN, CLOSED
	DailyLimit       decimal.Decimal `json:"dailyLimit"`       // Max cumulative transfer-out per day
	DailyTransferred decimal.Decimal `json:"dailyTransferred"` // Amount already transferred today
	MinimumBalance   decimal.Decimal `json:"minimumBalance"`   // Floor the balance may not go below after a debit
	Version          int64           `json:"version"`          // Optimistic concurrency counter
	AuditFields
}

// Debit reduces the balance by amount. Callers must have validated the
// resulting balance against MinimumBalance beforehand; Debit itself does not
// re-check so that the validation engine stays the single source of rules.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Balance = a.Balance.Sub(amount)
}

// Credit increases the balance by amount.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// AddToDailyTransferred accumulates the requested amount (not amount+fee)
// against the daily limit.
func (a *Account) AddToDailyTransferred(amount decimal.Decimal) {
	a.DailyTransferred = a.DailyTransferred.Add(amount)
}

// HasSufficientBalance reports whether the balance covers the given total.
func (a *Account) HasSufficientBalance(total decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(total)
}
