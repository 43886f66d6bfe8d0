package waiver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/policy"
)

func loadPolicy(t *testing.T) *policy.Policy {
	t.Helper()
	p, err := policy.Load("")
	require.NoError(t, err)
	return p
}

func TestScoreExamples(t *testing.T) {
	p := loadPolicy(t)
	cases := []struct {
		name     string
		history  customers.History
		reason   string
		score    int
		tier     Tier
		percent  int
		decision Decision
	}{
		{
			name:     "loyal customer with hospital stay",
			history:  customers.History{TenureMonths: 36},
			reason:   "I was in the HOSPITAL last week",
			score:    80,
			tier:     TierFull,
			percent:  100,
			decision: DecisionApproveFull,
		},
		{
			name:     "repeat offender without reason",
			history:  customers.History{TenureMonths: 12, LatePayments12m: 5, PreviousWaivers: 3},
			score:    -55,
			tier:     TierDecline,
			decision: DecisionDecline,
		},
		{
			name:     "some late payments with valid reason",
			history:  customers.History{TenureMonths: 12, LatePayments12m: 2, PreviousWaivers: 1},
			reason:   "medical emergency",
			score:    25,
			tier:     TierPartial,
			percent:  50,
			decision: DecisionApprovePartial,
		},
		{
			name:     "invalid reason",
			history:  customers.History{TenureMonths: 24},
			reason:   "I forgot",
			score:    30,
			tier:     TierPartial,
			percent:  50,
			decision: DecisionApprovePartial,
		},
		{
			name:     "unmatched reason contributes nothing",
			history:  customers.History{TenureMonths: 11},
			reason:   "bill too high",
			score:    20,
			tier:     TierPartial,
			percent:  50,
			decision: DecisionApprovePartial,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eval := Score(tc.history, tc.reason, p)
			require.Equal(t, tc.score, eval.Score)
			require.Equal(t, tc.tier, eval.Tier)
			require.Equal(t, tc.percent, eval.WaiverPercent)
			require.Equal(t, tc.decision, eval.Decision)
			require.Equal(t, p.Version, eval.PolicyVersion)
		})
	}
}

func TestValidReasonWinsOverInvalid(t *testing.T) {
	p := loadPolicy(t)
	eval := Score(customers.History{}, "I forgot because I was in the hospital", p)
	require.True(t, eval.Factors.ReasonValid)
	require.True(t, eval.Factors.ReasonInvalid)
	require.Equal(t, p.Points.HardshipValid, eval.Factors.Breakdown.Hardship)
}

func TestLatePaymentBands(t *testing.T) {
	p := loadPolicy(t)
	bands := map[int]int{0: p.Points.CleanHistory12m, 1: 0, 2: 0, 3: -latePaymentPenalty, 9: -latePaymentPenalty}
	for late, want := range bands {
		eval := Score(customers.History{LatePayments12m: late}, "", p)
		require.Equal(t, want, eval.Factors.Breakdown.History, "late=%d", late)
	}
}

func TestTenureUsesWholeYears(t *testing.T) {
	p := loadPolicy(t)
	require.Equal(t, 0, Score(customers.History{TenureMonths: 11}, "", p).Factors.Breakdown.Tenure)
	require.Equal(t, 10, Score(customers.History{TenureMonths: 23}, "", p).Factors.Breakdown.Tenure)
	require.Equal(t, 20, Score(customers.History{TenureMonths: 24}, "", p).Factors.Breakdown.Tenure)
}

func TestEmptyPhrasesNeverMatch(t *testing.T) {
	p := loadPolicy(t)
	p.ValidReasons = []string{""}
	p.InvalidReasons = nil
	eval := Score(customers.History{}, "anything", p)
	require.False(t, eval.Factors.ReasonValid)
	require.Zero(t, eval.Factors.Breakdown.Hardship)
}

func TestClassifyBoundariesAreInclusive(t *testing.T) {
	th := policy.Thresholds{FullWaiverMinScore: 50, PartialWaiverMinScore: 20}

	tier, percent, decision := Classify(50, th)
	require.Equal(t, TierFull, tier)
	require.Equal(t, 100, percent)
	require.Equal(t, DecisionApproveFull, decision)

	tier, _, _ = Classify(49, th)
	require.Equal(t, TierPartial, tier)

	tier, _, _ = Classify(20, th)
	require.Equal(t, TierPartial, tier)

	tier, percent, _ = Classify(19, th)
	require.Equal(t, TierDecline, tier)
	require.Zero(t, percent)
}

func TestClassifyIsMonotonic(t *testing.T) {
	th := policy.Thresholds{FullWaiverMinScore: 50, PartialWaiverMinScore: 20}
	prev := -1
	for score := -100; score <= 150; score++ {
		tier, _, _ := Classify(score, th)
		require.GreaterOrEqual(t, tier.Rank(), prev, "score=%d", score)
		prev = tier.Rank()
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	p := loadPolicy(t)
	h := customers.History{TenureMonths: 40, LatePayments12m: 1, PreviousWaivers: 2}
	require.Equal(t, Score(h, "job loss", p), Score(h, "job loss", p))
}
