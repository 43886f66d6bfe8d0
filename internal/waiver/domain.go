package waiver

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the discrete waiver outcome derived from a score.
type Tier string

const (
	TierDecline Tier = "Decline"
	TierPartial Tier = "Partial"
	TierFull    Tier = "Full"
)

// Rank orders tiers: Decline < Partial < Full.
func (t Tier) Rank() int {
	switch t {
	case TierFull:
		return 2
	case TierPartial:
		return 1
	default:
		return 0
	}
}

// Decision is the machine-readable recommendation.
type Decision string

const (
	DecisionApproveFull    Decision = "APPROVE_FULL"
	DecisionApprovePartial Decision = "APPROVE_PARTIAL"
	DecisionDecline        Decision = "DECLINE"
)

// Breakdown lists the contribution of each scoring term.
type Breakdown struct {
	Tenure          int `json:"tenure"`
	History         int `json:"history"`
	PreviousWaivers int `json:"previous_waivers"`
	Hardship        int `json:"hardship"`
}

// Factors explains an evaluation for audit.
type Factors struct {
	TenureMonths    int       `json:"tenure_months"`
	ReasonValid     bool      `json:"reason_valid"`
	ReasonInvalid   bool      `json:"reason_invalid"`
	LatePayments12m int       `json:"late_payments_last_12m"`
	PreviousWaivers int       `json:"previous_waivers"`
	Breakdown       Breakdown `json:"breakdown"`
}

// Evaluation is the scorer output.
type Evaluation struct {
	CustomerID    string   `json:"customer_id"`
	Score         int      `json:"eligibility_score"`
	Tier          Tier     `json:"tier"`
	WaiverPercent int      `json:"waiver_percent"`
	Decision      Decision `json:"decision"`
	PolicyVersion string   `json:"policy_version,omitempty"`
	Factors       Factors  `json:"factors"`
}

// Record is an applied waiver. It is never mutated after creation.
type Record struct {
	ID         string          `json:"waiver_id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ApplyInput requests a waiver.
type ApplyInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Reason     string
}

// Receipt confirms an applied waiver.
type Receipt struct {
	Success      bool            `json:"success"`
	WaiverID     string          `json:"waiver_id"`
	AmountWaived decimal.Decimal `json:"amount_waived"`
	Message      string          `json:"message"`
	Record       Record          `json:"record"`
}

// Notification describes a queued customer message.
type Notification struct {
	SentTo  string `json:"sent_to_customer"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// Prevention lists suggestions to avoid future late fees.
type Prevention struct {
	CustomerID  string   `json:"customer_id"`
	Suggestions []string `json:"suggestions"`
}

// Escalation is a supervisor review ticket.
type Escalation struct {
	TicketID   string `json:"ticket_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	SLA        string `json:"sla"`
	Message    string `json:"message"`
}
