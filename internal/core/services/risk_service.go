package services

import (
	"time"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Additive rule weights for the deterministic risk model.
var (
	riskWeightHighAmount = decimal.NewFromFloat(0.3)
	riskWeightOddHours   = decimal.NewFromFloat(0.2)
	riskWeightVelocity   = decimal.NewFromFloat(0.4)
	riskWeightNewAccount = decimal.NewFromFloat(0.2)

	riskScoreCap = decimal.NewFromInt(1)
)

// RiskPolicy is the injected risk-scoring configuration.
type RiskPolicy struct {
	HighAmountThreshold decimal.Decimal // rule 1 trips above this amount
	UnusualHoursStart   int             // rule 2 window, inclusive hour [0,23]
	UnusualHoursEnd     int             // rule 2 window, exclusive hour
	VelocityThreshold   int64           // rule 3 trips above this many recent transfers
	VelocityWindow      time.Duration   // trailing window for rule 3
	NewAccountAge       time.Duration   // rule 4 trips for accounts younger than this
	BlockThreshold      decimal.Decimal // scores above this block the transfer; <= 0 disables blocking
}

// DefaultRiskPolicy returns the reference rule thresholds: high amount above
// 100000, unusual hours midnight to 6 AM, more than 5 transfers in the
// trailing 30 minutes, accounts younger than 7 days, blocking above 0.8.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		HighAmountThreshold: decimal.NewFromInt(100000),
		UnusualHoursStart:   0,
		UnusualHoursEnd:     6,
		VelocityThreshold:   5,
		VelocityWindow:      30 * time.Minute,
		NewAccountAge:       7 * 24 * time.Hour,
		BlockThreshold:      decimal.NewFromFloat(0.8),
	}
}

// RiskScorer computes a deterministic fraud-likelihood score in [0,1] from
// rule-based signals. The score is advisory; whether it blocks a transfer is
// decided by the policy's BlockThreshold.
type RiskScorer struct {
	policy RiskPolicy

	// Now is the clock used for the time-based rules. Overridable in tests.
	Now func() time.Time
}

// NewRiskScorer creates a RiskScorer with the given policy.
func NewRiskScorer(policy RiskPolicy) *RiskScorer {
	return &RiskScorer{policy: policy, Now: time.Now}
}

// VelocityWindow exposes the trailing window the caller must count recent
// transfers over before scoring.
func (s *RiskScorer) VelocityWindow() time.Duration {
	return s.policy.VelocityWindow
}

// Score evaluates the rule model for one transfer attempt. recentTransfers is
// the number of transfers the source account initiated within the trailing
// VelocityWindow. The sum of tripped rule weights is capped at 1.0.
func (s *RiskScorer) Score(source domain.Account, destination domain.Account, amount decimal.Decimal, recentTransfers int64) decimal.Decimal {
	score := decimal.Zero
	now := s.Now()

	if amount.GreaterThan(s.policy.HighAmountThreshold) {
		score = score.Add(riskWeightHighAmount)
	}

	if s.inUnusualHours(now) {
		score = score.Add(riskWeightOddHours)
	}

	if recentTransfers > s.policy.VelocityThreshold {
		score = score.Add(riskWeightVelocity)
	}

	if source.CreatedAt.After(now.Add(-s.policy.NewAccountAge)) {
		score = score.Add(riskWeightNewAccount)
	}

	if score.GreaterThan(riskScoreCap) {
		score = riskScoreCap
	}
	return score
}

// ShouldBlock reports whether the score trips the configured block threshold.
// Always false when blocking is disabled (threshold <= 0).
func (s *RiskScorer) ShouldBlock(score decimal.Decimal) bool {
	if s.policy.BlockThreshold.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return score.GreaterThan(s.policy.BlockThreshold)
}

// inUnusualHours reports whether t falls inside the configured window. The
// window may wrap midnight (start > end).
func (s *RiskScorer) inUnusualHours(t time.Time) bool {
	hour := t.Hour()
	start, end := s.policy.UnusualHoursStart, s.policy.UnusualHoursEnd
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
