package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
)

func TestAccountDebitCredit(t *testing.T) {
	account := domain.Account{Balance: decimal.NewFromInt(1000)}

	account.Debit(decimal.NewFromInt(300))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(700)))

	account.Credit(decimal.NewFromInt(50))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(750)))
}

func TestAccountHasSufficientBalance(t *testing.T) {
	account := domain.Account{Balance: decimal.NewFromInt(100)}

	assert.True(t, account.HasSufficientBalance(decimal.NewFromInt(100)))
	assert.True(t, account.HasSufficientBalance(decimal.NewFromInt(99)))
	assert.False(t, account.HasSufficientBalance(decimal.NewFromFloat(100.01)))
}

func TestAccountAddToDailyTransferred(t *testing.T) {
	account := domain.Account{DailyTransferred: decimal.NewFromInt(600)}

	account.AddToDailyTransferred(decimal.NewFromInt(400))

	assert.True(t, account.DailyTransferred.Equal(decimal.NewFromInt(1000)))
}

func TestTransferIsTerminal(t *testing.T) {
	testCases := []struct {
		status   domain.TransferStatus
		terminal bool
	}{
		{domain.TransferInitiated, false},
		{domain.TransferProcessing, false},
		{domain.TransferCompleted, true},
		{domain.TransferFailed, true},
	}
	for _, tc := range testCases {
		transfer := domain.Transfer{Status: tc.status}
		assert.Equal(t, tc.terminal, transfer.IsTerminal(), "status %s", tc.status)
	}
}
