package services

import (
	"github.com/shopspring/decimal"
)

// FeeTier maps a transfer-amount bracket to a fee rate. UpperBound is
// inclusive; a nil UpperBound marks the open-ended top tier.
type FeeTier struct {
	UpperBound *decimal.Decimal
	Rate       decimal.Decimal
}

// FeePolicy is the injected fee configuration: ordered tiers (ascending
// bounds, last one unbounded) and a hard cap on the computed fee.
type FeePolicy struct {
	Tiers  []FeeTier
	MaxFee decimal.Decimal
}

// DefaultFeePolicy returns the reference tier table:
// 0% up to 1000, 1% up to 10000, 0.5% up to 50000, 0.25% above, capped at 500.00.
func DefaultFeePolicy() FeePolicy {
	tier1 := decimal.NewFromInt(1000)
	tier2 := decimal.NewFromInt(10000)
	tier3 := decimal.NewFromInt(50000)
	return FeePolicy{
		Tiers: []FeeTier{
			{UpperBound: &tier1, Rate: decimal.Zero},
			{UpperBound: &tier2, Rate: decimal.NewFromFloat(0.01)},
			{UpperBound: &tier3, Rate: decimal.NewFromFloat(0.005)},
			{UpperBound: nil, Rate: decimal.NewFromFloat(0.0025)},
		},
		MaxFee: decimal.NewFromFloat(500.00),
	}
}

// FeeCalculator computes transfer fees from the requested amount. Pure; it
// never fails for positive input. Non-positive amounts must be rejected
// upstream by the validation engine.
type FeeCalculator struct {
	policy FeePolicy
}

// NewFeeCalculator creates a FeeCalculator with the given policy.
func NewFeeCalculator(policy FeePolicy) *FeeCalculator {
	return &FeeCalculator{policy: policy}
}

// CalculateFee returns the fee for the requested amount, rounded up to two
// decimal places, then capped at the policy maximum. The tier is selected on
// the requested amount, not the total.
func (f *FeeCalculator) CalculateFee(amount decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range f.policy.Tiers {
		if tier.UpperBound == nil || amount.LessThanOrEqual(*tier.UpperBound) {
			rate = tier.Rate
			break
		}
	}

	fee := amount.Mul(rate).RoundUp(2)

	if fee.GreaterThan(f.policy.MaxFee) {
		fee = f.policy.MaxFee
	}
	return fee
}
