package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/quickpay/quickpay_backend/internal/core/services"
)

// newScorerAt returns a scorer whose clock is pinned to the given time.
func newScorerAt(t time.Time) *services.RiskScorer {
	scorer := services.NewRiskScorer(services.DefaultRiskPolicy())
	scorer.Now = func() time.Time { return t }
	return scorer
}

// oldAccount returns an account created well before the new-account window.
func oldAccount(now time.Time) domain.Account {
	return domain.Account{
		AccountID: "acc-old",
		AuditFields: domain.AuditFields{
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		},
	}
}

func TestScore_NoRulesTripped(t *testing.T) {
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer := newScorerAt(noon)

	score := scorer.Score(oldAccount(noon), oldAccount(noon), decimal.NewFromInt(500), 0)

	assert.True(t, score.IsZero(), "expected zero score, got %s", score)
}

func TestScore_HighAmount(t *testing.T) {
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer := newScorerAt(noon)

	score := scorer.Score(oldAccount(noon), oldAccount(noon), decimal.NewFromInt(100001), 0)

	assert.True(t, score.Equal(decimal.NewFromFloat(0.3)), "got %s", score)
}

func TestScore_ThresholdAmountDoesNotTrip(t *testing.T) {
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer := newScorerAt(noon)

	// Exactly at the threshold stays clean; the rule trips strictly above.
	score := scorer.Score(oldAccount(noon), oldAccount(noon), decimal.NewFromInt(100000), 0)

	assert.True(t, score.IsZero(), "got %s", score)
}

func TestScore_UnusualHours(t *testing.T) {
	threeAM := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	scorer := newScorerAt(threeAM)

	score := scorer.Score(oldAccount(threeAM), oldAccount(threeAM), decimal.NewFromInt(500), 0)

	assert.True(t, score.Equal(decimal.NewFromFloat(0.2)), "got %s", score)
}

func TestScore_SixAMIsOutsideWindow(t *testing.T) {
	sixAM := time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)
	scorer := newScorerAt(sixAM)

	score := scorer.Score(oldAccount(sixAM), oldAccount(sixAM), decimal.NewFromInt(500), 0)

	assert.True(t, score.IsZero(), "got %s", score)
}

func TestScore_Velocity(t *testing.T) {
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer := newScorerAt(noon)

	// Five recent transfers is at the threshold, six trips it.
	atThreshold := scorer.Score(oldAccount(noon), oldAccount(noon), decimal.NewFromInt(500), 5)
	aboveThreshold := scorer.Score(oldAccount(noon), oldAccount(noon), decimal.NewFromInt(500), 6)

	assert.True(t, atThreshold.IsZero(), "got %s", atThreshold)
	assert.True(t, aboveThreshold.Equal(decimal.NewFromFloat(0.4)), "got %s", aboveThreshold)
}

func TestScore_NewAccount(t *testing.T) {
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer := newScorerAt(noon)

	young := domain.Account{
		AccountID: "acc-young",
		AuditFields: domain.AuditFields{
			CreatedAt: noon.Add(-24 * time.Hour),
		},
	}

	score := scorer.Score(young, oldAccount(noon), decimal.NewFromInt(500), 0)

	assert.True(t, score.Equal(decimal.NewFromFloat(0.2)), "got %s", score)
}

func TestScore_AllRulesCappedAtOne(t *testing.T) {
	threeAM := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	scorer := newScorerAt(threeAM)

	young := domain.Account{
		AccountID: "acc-young",
		AuditFields: domain.AuditFields{
			CreatedAt: threeAM.Add(-time.Hour),
		},
	}

	// 0.3 + 0.2 + 0.4 + 0.2 = 1.1, capped at 1.0.
	score := scorer.Score(young, oldAccount(threeAM), decimal.NewFromInt(200000), 10)

	assert.True(t, score.Equal(decimal.NewFromInt(1)), "got %s", score)
}

func TestShouldBlock(t *testing.T) {
	scorer := services.NewRiskScorer(services.DefaultRiskPolicy())

	assert.False(t, scorer.ShouldBlock(decimal.NewFromFloat(0.8)), "threshold itself must not block")
	assert.True(t, scorer.ShouldBlock(decimal.NewFromFloat(0.9)))
}

func TestShouldBlock_DisabledThreshold(t *testing.T) {
	policy := services.DefaultRiskPolicy()
	policy.BlockThreshold = decimal.Zero
	scorer := services.NewRiskScorer(policy)

	assert.False(t, scorer.ShouldBlock(decimal.NewFromInt(1)))
}

func TestScore_WindowWrappingMidnight(t *testing.T) {
	policy := services.DefaultRiskPolicy()
	policy.UnusualHoursStart = 22
	policy.UnusualHoursEnd = 4
	scorer := services.NewRiskScorer(policy)

	elevenPM := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	scorer.Now = func() time.Time { return elevenPM }
	score := scorer.Score(oldAccount(elevenPM), oldAccount(elevenPM), decimal.NewFromInt(500), 0)
	assert.True(t, score.Equal(decimal.NewFromFloat(0.2)), "got %s", score)

	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer.Now = func() time.Time { return noon }
	score = scorer.Score(oldAccount(noon), oldAccount(noon), decimal.NewFromInt(500), 0)
	assert.True(t, score.IsZero(), "got %s", score)
}
