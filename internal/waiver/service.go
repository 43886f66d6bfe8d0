package waiver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/observability"
	"github.com/skillsdesk/skillsdesk/internal/policy"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

const (
	auditActor = "skills-agent"
	// RoutingKeyApplied is published after a waiver commits.
	RoutingKeyApplied = "waiver.applied"
	// RoutingKeyEscalated is published when a request goes to a supervisor.
	RoutingKeyEscalated = "waiver.escalated"
)

var preventionTips = []string{
	"Set up AutoPay to never miss a due date.",
	"Enable SMS Payment Reminders.",
	"Switch to Paperless Billing for faster notifications.",
}

// CustomerLedger is the customer store the service reads and mutates.
type CustomerLedger interface {
	Get(ctx context.Context, id string) (customers.Record, error)
	Update(ctx context.Context, id string, fn func(*customers.Record) error) (customers.Record, error)
}

// RepositoryPort defines waiver ledger access.
type RepositoryPort interface {
	Add(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	ListByCustomer(ctx context.Context, customerID string) []Record
}

// Notice is a customer message about an applied waiver.
type Notice struct {
	CustomerID string
	Phone      string
	WaiverID   string
	Content    string
}

// Notifier hands customer and supervisor messages to background delivery.
type Notifier interface {
	NotifyWaiver(ctx context.Context, notice Notice) error
	EscalateWaiver(ctx context.Context, esc Escalation, reason string) error
}

// ServiceConfig carries optional collaborators.
type ServiceConfig struct {
	Notifier Notifier
	Audit    shared.AuditRecorder
	Events   shared.EventPublisher
	Metrics  *observability.Metrics
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Service evaluates and applies fee waivers.
type Service struct {
	policy    *policy.Policy
	customers CustomerLedger
	repo      RepositoryPort
	notifier  Notifier
	audit     shared.AuditRecorder
	events    shared.EventPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService builds Service instance.
func NewService(p *policy.Policy, ledger CustomerLedger, repo RepositoryPort, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		policy:    p,
		customers: ledger,
		repo:      repo,
		notifier:  cfg.Notifier,
		audit:     cfg.Audit,
		events:    cfg.Events,
		metrics:   cfg.Metrics,
		logger:    logger,
		now:       now,
	}
}

// Policy returns the loaded waiver policy.
func (s *Service) Policy() policy.Policy {
	return *s.policy
}

// Evaluate scores a waiver request without side effects.
func (s *Service) Evaluate(ctx context.Context, customerID, reason string) (Evaluation, error) {
	customerID = strings.TrimSpace(customerID)
	record, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Evaluation{}, err
	}
	eval := Score(record.History(), reason, s.policy)
	eval.CustomerID = record.ID
	s.metrics.ObserveEvaluation(string(eval.Tier))
	return eval, nil
}

// Apply commits a waiver. It enforces the policy cap only; callers decide
// the amount. Repeated calls create repeated waivers.
func (s *Service) Apply(ctx context.Context, input ApplyInput) (Receipt, error) {
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID == "" {
		return Receipt{}, shared.NewValidation("customer_id", "is required")
	}
	if !input.Amount.IsPositive() {
		return Receipt{}, shared.NewValidation("amount", "must be greater than zero")
	}
	limit := s.policy.Caps.MaxWaiverAmount
	if input.Amount.GreaterThan(limit) {
		return Receipt{}, &shared.PolicyViolationError{Cap: limit, Requested: input.Amount}
	}

	rec := Record{
		ID:         shared.NewReference("WV", 8),
		CustomerID: customerID,
		Amount:     input.Amount,
		Reason:     input.Reason,
		CreatedAt:  s.now().UTC(),
	}
	if _, err := s.customers.Update(ctx, customerID, func(r *customers.Record) error {
		r.PreviousWaivers++
		return nil
	}); err != nil {
		return Receipt{}, err
	}
	if err := s.repo.Add(ctx, rec); err != nil {
		if _, undoErr := s.customers.Update(ctx, customerID, func(r *customers.Record) error {
			r.PreviousWaivers--
			return nil
		}); undoErr != nil {
			s.logger.Error("restore waiver counter", slog.String("customer_id", customerID), slog.Any("error", undoErr))
		}
		return Receipt{}, err
	}

	s.afterApply(ctx, rec)
	return Receipt{
		Success:      true,
		WaiverID:     rec.ID,
		AmountWaived: rec.Amount,
		Message:      fmt.Sprintf("Waiver of $%s applied successfully.", rec.Amount.StringFixed(2)),
		Record:       rec,
	}, nil
}

func (s *Service) afterApply(ctx context.Context, rec Record) {
	s.metrics.ObserveWaiver(rec.Amount.InexactFloat64())
	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			Actor:    auditActor,
			Action:   RoutingKeyApplied,
			Entity:   "waiver",
			EntityID: rec.ID,
			Meta: map[string]any{
				"customer_id": rec.CustomerID,
				"amount":      rec.Amount.StringFixed(2),
				"reason":      rec.Reason,
			},
			At: rec.CreatedAt,
		})
		if err != nil {
			s.logger.Warn("audit waiver", slog.String("waiver_id", rec.ID), slog.Any("error", err))
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, RoutingKeyApplied, rec); err != nil {
			s.logger.Warn("publish waiver event", slog.String("waiver_id", rec.ID), slog.Any("error", err))
		}
	}
	s.logger.Info("waiver applied",
		slog.String("waiver_id", rec.ID),
		slog.String("customer_id", rec.CustomerID),
		slog.String("amount", rec.Amount.StringFixed(2)))
}

// Waivers lists a customer's applied waivers.
func (s *Service) Waivers(ctx context.Context, customerID string) ([]Record, error) {
	if _, err := s.customers.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customerID), nil
}

// Notify queues the customer message confirming a waiver.
func (s *Service) Notify(ctx context.Context, customerID, waiverID string, amount decimal.Decimal) (Notification, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Notification{}, err
	}
	rec, err := s.repo.Get(ctx, waiverID)
	if err != nil {
		return Notification{}, err
	}
	if rec.CustomerID != customer.ID {
		return Notification{}, shared.NewValidation("waiver_id", "does not belong to customer")
	}
	if amount.IsZero() {
		amount = rec.Amount
	}
	content := fmt.Sprintf("Good news! We have waived $%s from your bill. Reference: %s.", amount.StringFixed(2), rec.ID)
	status := "sent"
	if s.notifier != nil {
		if err := s.notifier.NotifyWaiver(ctx, Notice{
			CustomerID: customer.ID,
			Phone:      customer.ContactPhone,
			WaiverID:   rec.ID,
			Content:    content,
		}); err != nil {
			return Notification{}, fmt.Errorf("waiver: enqueue notification: %w", err)
		}
		status = "queued"
	}
	return Notification{SentTo: customer.ID, Content: content, Status: status}, nil
}

// RecommendPrevention returns tips to avoid future late fees.
func (s *Service) RecommendPrevention(ctx context.Context, customerID string) (Prevention, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Prevention{}, err
	}
	tips := make([]string, len(preventionTips))
	copy(tips, preventionTips)
	return Prevention{CustomerID: customer.ID, Suggestions: tips}, nil
}

// Escalate forwards a rejected request to a supervisor.
func (s *Service) Escalate(ctx context.Context, customerID, reason string) (Escalation, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Escalation{}, err
	}
	esc := Escalation{
		TicketID:   shared.NewReference("ESC", 6),
		CustomerID: customer.ID,
		Status:     "escalated",
		SLA:        "24-48 hours",
		Message:    "Your request has been forwarded to a supervisor for manual review.",
	}
	if s.notifier != nil {
		if err := s.notifier.EscalateWaiver(ctx, esc, reason); err != nil {
			return Escalation{}, fmt.Errorf("waiver: enqueue escalation: %w", err)
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, RoutingKeyEscalated, esc); err != nil {
			s.logger.Warn("publish escalation event", slog.String("ticket_id", esc.TicketID), slog.Any("error", err))
		}
	}
	return esc, nil
}
