package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the state of a transfer attempt. COMPLETED and FAILED are
// terminal; a transfer never leaves a terminal state.
type TransferStatus string

const (
	TransferInitiated  TransferStatus = "INITIATED"
	TransferProcessing TransferStatus = "PROCESSING"
	TransferCompleted  TransferStatus = "COMPLETED"
	TransferFailed     TransferStatus = "FAILED"
)

// Transfer is one attempted movement of funds between two accounts. It is
// created at the start of an orchestrated attempt and persisted once fully
// resolved; it is immutable thereafter.
type Transfer struct {
	TransferID     string          `json:"transferID"`     // Primary key (UUID)
	Reference      string          `json:"reference"`      // Globally unique, human-traceable (TXN-...)
	SourceID       string          `json:"sourceID"`       // FK -> accounts.account_id
	DestinationID  string          `json:"destinationID"`  // FK -> accounts.account_id
	Amount         decimal.Decimal `json:"amount"`         // Requested amount
	Fee            decimal.Decimal `json:"fee"`            // Computed fee
	TotalAmount    decimal.Decimal `json:"totalAmount"`    // Amount + Fee, always
	CurrencyCode   string          `json:"currencyCode"`   // Currency of both legs
	Status         TransferStatus  `json:"status"`         // INITIATED -> PROCESSING -> COMPLETED | FAILED
	RiskScore      decimal.Decimal `json:"riskScore"`      // [0,1] advisory fraud score
	Description    string          `json:"description"`    // Optional free text
	Remarks        string          `json:"remarks"`        // Failure remark, empty on success
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt"`    // Set only on terminal success
}

// IsTerminal reports whether the transfer has reached a final state.
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferCompleted || t.Status == TransferFailed
}
