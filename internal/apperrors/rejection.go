package apperrors

import "fmt"

// RejectionCode identifies the business rule that rejected a transfer.
type RejectionCode string

const (
	CodeAccountNotFound         RejectionCode = "ACCOUNT_NOT_FOUND"
	CodeSameAccountTransfer     RejectionCode = "SAME_ACCOUNT_TRANSFER"
	CodeSourceInactive          RejectionCode = "SOURCE_ACCOUNT_INACTIVE"
	CodeDestinationInactive     RejectionCode = "DESTINATION_ACCOUNT_INACTIVE"
	CodeNonPositiveAmount       RejectionCode = "NON_POSITIVE_AMOUNT"
	CodeExceedsMaxLimit         RejectionCode = "EXCEEDS_MAX_LIMIT"
	CodeInsufficientBalance     RejectionCode = "INSUFFICIENT_BALANCE"
	CodeMinimumBalanceViolation RejectionCode = "MINIMUM_BALANCE_VIOLATION"
	CodeDailyLimitExceeded      RejectionCode = "DAILY_LIMIT_EXCEEDED"
	CodeFraudBlocked            RejectionCode = "FRAUD_BLOCKED"
)

// Rejection is a structured business-rule rejection. It carries the rule code
// and machine-readable detail fields so callers can branch programmatically
// instead of parsing messages. It unwraps to one of the sentinel errors above
// so errors.Is keeps working across layers.
type Rejection struct {
	Code    RejectionCode
	Message string
	Details map[string]any
	base    error
}

// NewRejection builds a Rejection wrapping the given sentinel.
func NewRejection(base error, code RejectionCode, message string, details map[string]any) *Rejection {
	return &Rejection{
		Code:    code,
		Message: message,
		Details: details,
		base:    base,
	}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Unwrap exposes the sentinel so errors.Is(err, apperrors.ErrValidation) etc. match.
func (r *Rejection) Unwrap() error {
	return r.base
}
