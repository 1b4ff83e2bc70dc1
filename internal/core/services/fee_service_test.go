package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quickpay/quickpay_backend/internal/core/services"
)

func TestCalculateFee_TierSchedule(t *testing.T) {
	calc := services.NewFeeCalculator(services.DefaultFeePolicy())

	testCases := []struct {
		name     string
		amount   string
		expected string
	}{
		{"free tier", "500", "0"},
		{"free tier upper bound", "1000", "0"},
		{"just above free tier", "1001", "10.01"},
		{"one percent tier upper bound", "10000", "100"},
		{"just above one percent tier", "10001", "50.01"},
		{"half percent tier upper bound", "50000", "250"},
		{"top tier", "100000", "250"},
		{"fee capped at maximum", "1000000", "500"},
		{"rounds up to two decimals", "1234.56", "12.35"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			assert.NoError(t, err)

			fee := calc.CalculateFee(amount)

			assert.True(t, fee.Equal(decimal.RequireFromString(tc.expected)),
				"amount %s: expected fee %s, got %s", tc.amount, tc.expected, fee)
		})
	}
}

func TestCalculateFee_FeeNeverNegative(t *testing.T) {
	calc := services.NewFeeCalculator(services.DefaultFeePolicy())

	fee := calc.CalculateFee(decimal.NewFromFloat(0.01))

	assert.False(t, fee.IsNegative())
}

func TestCalculateFee_CustomTiers(t *testing.T) {
	bound := decimal.NewFromInt(100)
	policy := services.FeePolicy{
		Tiers: []services.FeeTier{
			{UpperBound: &bound, Rate: decimal.NewFromFloat(0.02)},
			{UpperBound: nil, Rate: decimal.NewFromFloat(0.05)},
		},
		MaxFee: decimal.NewFromInt(10),
	}
	calc := services.NewFeeCalculator(policy)

	assert.True(t, calc.CalculateFee(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(2)))
	assert.True(t, calc.CalculateFee(decimal.NewFromInt(150)).Equal(decimal.NewFromFloat(7.5)))
	assert.True(t, calc.CalculateFee(decimal.NewFromInt(10000)).Equal(decimal.NewFromInt(10)))
}
