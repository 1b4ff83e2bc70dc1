package services

import (
	"fmt"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/quickpay/quickpay_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ValidationPolicy is the injected validation configuration.
type ValidationPolicy struct {
	MaxTransferAmount decimal.Decimal // single-transfer ceiling
}

// DefaultValidationPolicy returns the reference ceiling of 100000.00.
func DefaultValidationPolicy() ValidationPolicy {
	return ValidationPolicy{MaxTransferAmount: decimal.NewFromInt(100000)}
}

// TransferValidator encodes every business rule a transfer must pass. It
// never mutates state. Checks run in a fixed order and the first failure
// wins, so error messages are deterministic for a given request.
type TransferValidator struct {
	policy ValidationPolicy
}

// NewTransferValidator creates a TransferValidator with the given policy.
func NewTransferValidator(policy ValidationPolicy) *TransferValidator {
	return &TransferValidator{policy: policy}
}

// Validate checks the request against the loaded accounts and the computed
// total (amount + fee). A nil return means the transfer passed every rule.
func (v *TransferValidator) Validate(req dto.TransferRequest, source, destination *domain.Account, totalAmount decimal.Decimal) *apperrors.Rejection {
	if source == nil {
		return apperrors.NewRejection(apperrors.ErrNotFound, apperrors.CodeAccountNotFound,
			fmt.Sprintf("source account not found: %s", req.SourceAccountID),
			map[string]any{"accountID": req.SourceAccountID})
	}
	if destination == nil {
		return apperrors.NewRejection(apperrors.ErrNotFound, apperrors.CodeAccountNotFound,
			fmt.Sprintf("destination account not found: %s", req.DestinationAccountID),
			map[string]any{"accountID": req.DestinationAccountID})
	}

	if source.AccountID == destination.AccountID {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeSameAccountTransfer,
			"cannot transfer to the same account",
			map[string]any{"accountID": source.AccountID})
	}

	if source.Status != domain.StatusActive {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeSourceInactive,
			fmt.Sprintf("source account is not active: %s", source.Status),
			map[string]any{"accountID": source.AccountID, "status": string(source.Status)})
	}
	if destination.Status != domain.StatusActive {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeDestinationInactive,
			fmt.Sprintf("destination account is not active: %s", destination.Status),
			map[string]any{"accountID": destination.AccountID, "status": string(destination.Status)})
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeNonPositiveAmount,
			"transfer amount must be greater than zero",
			map[string]any{"amount": req.Amount.String()})
	}

	if req.Amount.GreaterThan(v.policy.MaxTransferAmount) {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeExceedsMaxLimit,
			fmt.Sprintf("transfer amount exceeds maximum limit: %s", v.policy.MaxTransferAmount),
			map[string]any{"amount": req.Amount.String(), "maxAmount": v.policy.MaxTransferAmount.String()})
	}

	if !source.HasSufficientBalance(totalAmount) {
		return apperrors.NewRejection(apperrors.ErrInsufficientBalance, apperrors.CodeInsufficientBalance,
			fmt.Sprintf("insufficient balance in account %s: required %s, available %s",
				source.AccountNumber, totalAmount, source.Balance),
			map[string]any{"required": totalAmount.String(), "available": source.Balance.String()})
	}

	balanceAfter := source.Balance.Sub(totalAmount)
	if balanceAfter.LessThan(source.MinimumBalance) {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeMinimumBalanceViolation,
			fmt.Sprintf("transfer would violate minimum balance: minimum %s, after transfer %s",
				source.MinimumBalance, balanceAfter),
			map[string]any{"minimumBalance": source.MinimumBalance.String(), "resultingBalance": balanceAfter.String()})
	}

	// Daily-limit accounting uses the requested amount, not amount + fee.
	dailyAfter := source.DailyTransferred.Add(req.Amount)
	if dailyAfter.GreaterThan(source.DailyLimit) {
		return apperrors.NewRejection(apperrors.ErrValidation, apperrors.CodeDailyLimitExceeded,
			fmt.Sprintf("transfer would exceed daily limit: limit %s, used %s, requested %s",
				source.DailyLimit, source.DailyTransferred, req.Amount),
			map[string]any{"limit": source.DailyLimit.String(), "used": source.DailyTransferred.String(), "requested": req.Amount.String()})
	}

	return nil
}
