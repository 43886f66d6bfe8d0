package roaming

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/observability"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// RoutingKeyActivated is published after roaming is switched on.
const RoutingKeyActivated = "roaming.activated"

const activationCode = "Enter *123# when you arrive."

var minPrepaidBalance = decimal.NewFromInt(10)

// Eligibility is the roaming eligibility verdict.
type Eligibility struct {
	CustomerID     string `json:"customer_id"`
	Eligible       bool   `json:"eligible"`
	Reason         string `json:"reason,omitempty"`
	RoamingEnabled bool   `json:"current_roaming_status"`
}

// IneligibleError is returned when activation is refused by eligibility rules.
type IneligibleError struct {
	CustomerID string
	Reason     string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("customer %s is not eligible for roaming: %s", e.CustomerID, e.Reason)
}

// Unwrap lets errors.Is match shared.ErrPolicyViolation.
func (e *IneligibleError) Unwrap() error { return shared.ErrPolicyViolation }

// Activation confirms an enabled roaming package.
type Activation struct {
	Success         bool      `json:"success"`
	ReferenceNumber string    `json:"reference_number"`
	CustomerID      string    `json:"customer_id"`
	Message         string    `json:"message"`
	ActivationCode  string    `json:"activation_code"`
	Quote           Quote     `json:"quote"`
	ActivatedAt     time.Time `json:"activated_at"`
}

// Confirmation is the SMS sent after activation.
type Confirmation struct {
	CustomerID string `json:"customer_id"`
	Reference  string `json:"reference_number"`
	SentTo     string `json:"sent_to"`
	Content    string `json:"content"`
	Status     string `json:"status"`
}

// CustomerLedger is the customer store used for eligibility and activation.
type CustomerLedger interface {
	Get(ctx context.Context, id string) (customers.Record, error)
	Update(ctx context.Context, id string, fn func(*customers.Record) error) (customers.Record, error)
}

// Notifier queues activation confirmations.
type Notifier interface {
	ConfirmRoaming(ctx context.Context, c Confirmation) error
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

// Service runs the roaming skill.
type Service struct {
	rates     *RateTable
	customers CustomerLedger
	notifier  Notifier
	audit     shared.AuditRecorder
	events    shared.EventPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.RWMutex
	activations map[string]Activation
}

// NewService builds Service instance.
func NewService(rates *RateTable, ledger CustomerLedger, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		rates:       rates,
		customers:   ledger,
		notifier:    cfg.Notifier,
		audit:       cfg.Audit,
		events:      cfg.Events,
		metrics:     cfg.Metrics,
		logger:      logger,
		now:         now,
		activations: make(map[string]Activation),
	}
}

// CheckEligibility applies the account status and balance rules.
func (s *Service) CheckEligibility(ctx context.Context, customerID string) (Eligibility, error) {
	rec, err := s.customers.Get(ctx, strings.TrimSpace(customerID))
	if err != nil {
		return Eligibility{}, err
	}
	return evaluate(rec), nil
}

func evaluate(rec customers.Record) Eligibility {
	out := Eligibility{CustomerID: rec.ID, RoamingEnabled: rec.RoamingEnabled}
	switch {
	case rec.Status != customers.StatusActive:
		out.Reason = fmt.Sprintf("Account status is %s", rec.Status)
	case rec.AccountType == customers.AccountPostpaid && rec.Balance.LessThan(rec.CreditLimit.Neg()):
		out.Reason = "Credit limit exceeded"
	case rec.AccountType == customers.AccountPrepaid && rec.Balance.LessThan(minPrepaidBalance):
		out.Reason = "Insufficient prepaid balance"
	default:
		out.Eligible = true
	}
	return out
}

// Rates quotes a package for a destination.
func (s *Service) Rates(destination, packageType string) (Quote, error) {
	return s.rates.Quote(destination, packageType)
}

// Activate enables roaming after eligibility and rate checks pass.
func (s *Service) Activate(ctx context.Context, customerID, destination, packageType string) (Activation, error) {
	customerID = strings.TrimSpace(customerID)
	quote, err := s.rates.Quote(destination, packageType)
	if err != nil {
		return Activation{}, err
	}
	_, err = s.customers.Update(ctx, customerID, func(r *customers.Record) error {
		if verdict := evaluate(*r); !verdict.Eligible {
			return &IneligibleError{CustomerID: r.ID, Reason: verdict.Reason}
		}
		r.RoamingEnabled = true
		return nil
	})
	if err != nil {
		return Activation{}, err
	}

	act := Activation{
		Success:         true,
		ReferenceNumber: shared.NewReference("ROAM", 8),
		CustomerID:      customerID,
		Message:         fmt.Sprintf("Roaming activated for %s. Package: %s.", quote.Destination, quote.Package),
		ActivationCode:  activationCode,
		Quote:           quote,
		ActivatedAt:     s.now().UTC(),
	}
	s.mu.Lock()
	s.activations[act.ReferenceNumber] = act
	s.mu.Unlock()

	s.metrics.ObserveRoamingActivation(quote.CountryCode)
	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			Actor:    "skills-agent",
			Action:   RoutingKeyActivated,
			Entity:   "roaming",
			EntityID: act.ReferenceNumber,
			Meta: map[string]any{
				"customer_id": customerID,
				"country":     quote.CountryCode,
				"package":     quote.PackageType,
				"price":       quote.TotalPrice.StringFixed(2),
			},
			At: act.ActivatedAt,
		})
		if err != nil {
			s.logger.Warn("audit roaming activation", slog.String("reference", act.ReferenceNumber), slog.Any("error", err))
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, RoutingKeyActivated, act); err != nil {
			s.logger.Warn("publish roaming event", slog.String("reference", act.ReferenceNumber), slog.Any("error", err))
		}
	}
	return act, nil
}

// SendConfirmation queues the activation SMS. The customer's phone on file is
// used when phone is empty.
func (s *Service) SendConfirmation(ctx context.Context, customerID, reference, phone string) (Confirmation, error) {
	rec, err := s.customers.Get(ctx, strings.TrimSpace(customerID))
	if err != nil {
		return Confirmation{}, err
	}
	s.mu.RLock()
	act, ok := s.activations[reference]
	s.mu.RUnlock()
	if !ok {
		return Confirmation{}, shared.NewNotFound("roaming activation", reference)
	}
	if act.CustomerID != rec.ID {
		return Confirmation{}, shared.NewValidation("reference_number", "does not belong to customer")
	}
	if strings.TrimSpace(phone) == "" {
		phone = rec.ContactPhone
	}
	c := Confirmation{
		CustomerID: rec.ID,
		Reference:  reference,
		SentTo:     phone,
		Content:    fmt.Sprintf("TelecomAgent: Your roaming plan is active. Ref: %s. Safe travels!", reference),
		Status:     "sent",
	}
	if s.notifier != nil {
		if err := s.notifier.ConfirmRoaming(ctx, c); err != nil {
			return Confirmation{}, fmt.Errorf("roaming: enqueue confirmation: %w", err)
		}
		c.Status = "queued"
	}
	return c, nil
}
