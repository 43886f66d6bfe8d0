package waiver

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/policy"
)

// latePaymentPenalty applies to three or more late payments. It is fixed and
// deliberately not part of the policy document.
const latePaymentPenalty = 20

const (
	fullPercent    = 100
	partialPercent = 50
)

// Score computes the eligibility score and tier. It has no side effects.
func Score(h customers.History, reason string, p *policy.Policy) Evaluation {
	var b Breakdown
	b.Tenure = (h.TenureMonths / 12) * p.Points.TenurePerYear

	switch {
	case h.LatePayments12m == 0:
		b.History = p.Points.CleanHistory12m
	case h.LatePayments12m < 3:
		b.History = 0
	default:
		b.History = -latePaymentPenalty
	}

	b.PreviousWaivers = h.PreviousWaivers * p.Points.PreviousWaiverPenalty

	valid := matchesAny(reason, p.ValidReasons)
	invalid := matchesAny(reason, p.InvalidReasons)
	switch {
	case valid:
		b.Hardship = p.Points.HardshipValid
	case invalid:
		b.Hardship = p.Points.HardshipInvalid
	}

	score := b.Tenure + b.History + b.PreviousWaivers + b.Hardship
	tier, percent, decision := Classify(score, p.Thresholds)
	return Evaluation{
		Score:         score,
		Tier:          tier,
		WaiverPercent: percent,
		Decision:      decision,
		PolicyVersion: p.Version,
		Factors: Factors{
			TenureMonths:    h.TenureMonths,
			ReasonValid:     valid,
			ReasonInvalid:   invalid,
			LatePayments12m: h.LatePayments12m,
			PreviousWaivers: h.PreviousWaivers,
			Breakdown:       b,
		},
	}
}

// Classify maps a score onto a tier using inclusive lower bounds.
func Classify(score int, t policy.Thresholds) (Tier, int, Decision) {
	switch {
	case score >= t.FullWaiverMinScore:
		return TierFull, fullPercent, DecisionApproveFull
	case score >= t.PartialWaiverMinScore:
		return TierPartial, partialPercent, DecisionApprovePartial
	default:
		return TierDecline, 0, DecisionDecline
	}
}

func matchesAny(text string, phrases []string) bool {
	if text == "" || len(phrases) == 0 {
		return false
	}
	fold := cases.Fold()
	haystack := fold.String(text)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(haystack, fold.String(phrase)) {
			return true
		}
	}
	return false
}
