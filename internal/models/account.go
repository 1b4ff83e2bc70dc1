package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus mirrors domain.AccountStatus for the persistence layer.
type AccountStatus string

// Account is the database representation of a ledger account.
type Account struct {
	AccountID        string          `db:"account_id"`
	AccountNumber    string          `db:"account_number"`
	HolderName       string          `db:"holder_name"`
	Balance          decimal.Decimal `db:"balance"`
	CurrencyCode     string          `db:"currency_code"`
	Status           AccountStatus   `db:"status"`
	DailyLimit       decimal.Decimal `db:"daily_limit"`
	DailyTransferred decimal.Decimal `db:"daily_transferred"`
	MinimumBalance   decimal.Decimal `db:"minimum_balance"`
	Version          int64           `db:"version"`
	CreatedAt        time.Time       `db:"created_at"`
	LastUpdatedAt    time.Time       `db:"last_updated_at"`
}
