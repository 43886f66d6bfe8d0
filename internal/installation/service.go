package installation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skillsdesk/skillsdesk/internal/observability"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// DefaultTechnicianID is assigned when no technician is configured.
const DefaultTechnicianID = "TECH-99"

const (
	nextSteps   = "Ensure someone over 18 is home. Technician will call 30 mins prior."
	auditActor  = "skills-agent"
	entityName  = "appointment"
	eventPrefix = "installation."
)

// Repository defines appointment ledger access.
type Repository interface {
	Add(ctx context.Context, appt Appointment) error
	Get(ctx context.Context, id string) (Appointment, error)
	Update(ctx context.Context, id string, fn func(*Appointment) error) (Appointment, error)
}

// Notifier queues the confirmation SMS for a booking.
type Notifier interface {
	ConfirmInstallation(ctx context.Context, appt Appointment) error
}

// ServiceConfig carries optional collaborators.
type ServiceConfig struct {
	TechnicianID string
	Notifier     Notifier
	Audit        shared.AuditRecorder
	Events       shared.EventPublisher
	Metrics      *observability.Metrics
	Logger       *slog.Logger
	Clock        func() time.Time
}

// Service books and manages installation appointments.
type Service struct {
	catalog    *Catalog
	coverage   *Coverage
	allocator  *Allocator
	repo       Repository
	technician string
	notifier   Notifier
	audit      shared.AuditRecorder
	events     shared.EventPublisher
	metrics    *observability.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds Service instance.
func NewService(catalog *Catalog, coverage *Coverage, allocator *Allocator, repo Repository, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	tech := strings.TrimSpace(cfg.TechnicianID)
	if tech == "" {
		tech = DefaultTechnicianID
	}
	return &Service{
		catalog:    catalog,
		coverage:   coverage,
		allocator:  allocator,
		repo:       repo,
		technician: tech,
		notifier:   cfg.Notifier,
		audit:      cfg.Audit,
		events:     cfg.Events,
		metrics:    cfg.Metrics,
		logger:     logger,
		now:        now,
	}
}

// CheckAvailability reports coverage for a zip code.
func (s *Service) CheckAvailability(address, zip string) (Availability, error) {
	if strings.TrimSpace(zip) == "" {
		return Availability{}, shared.NewValidation("zip", "is required")
	}
	return s.coverage.Check(address, zip), nil
}

// Slots lists open installation windows.
func (s *Service) Slots(q SlotQuery) (SlotPage, error) {
	return s.allocator.ListOpenSlots(q)
}

// Plans returns the service plan catalog.
func (s *Service) Plans() []Plan {
	return s.catalog.Plans()
}

// Book creates a SCHEDULED appointment. Nothing is stored when the plan does
// not resolve.
func (s *Service) Book(ctx context.Context, in BookInput) (Booking, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return Booking{}, shared.NewValidation("customer_id", "is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return Booking{}, shared.NewValidation("address", "is required")
	}
	if err := validateWhen(in.Date, in.TimeWindow); err != nil {
		return Booking{}, err
	}
	plan, err := s.catalog.Resolve(in.Plan)
	if err != nil {
		return Booking{}, err
	}

	ts := s.now().UTC()
	appt := Appointment{
		ID:           shared.NewReference("APPT", 8),
		CustomerID:   strings.TrimSpace(in.CustomerID),
		Address:      in.Address,
		Date:         in.Date,
		TimeWindow:   in.TimeWindow,
		Plan:         plan.Name,
		ContactPhone: in.ContactPhone,
		TechnicianID: s.technician,
		Status:       StatusScheduled,
		InstallFee:   plan.InstallFee,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.repo.Add(ctx, appt); err != nil {
		return Booking{}, err
	}
	s.record(ctx, appt, "booked")

	if s.notifier != nil {
		if err := s.notifier.ConfirmInstallation(ctx, appt); err != nil {
			s.logger.Warn("queue installation confirmation", slog.String("appointment_id", appt.ID), slog.Any("error", err))
		}
	}
	return Booking{
		Success:       true,
		AppointmentID: appt.ID,
		TechnicianID:  appt.TechnicianID,
		Plan:          appt.Plan,
		NextSteps:     nextSteps,
		FeeQuoted:     appt.InstallFee,
		Appointment:   appt,
	}, nil
}

// Get returns an appointment by ID.
func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	return s.repo.Get(ctx, strings.TrimSpace(id))
}

// Reschedule moves an active appointment to a new date and window. An unknown
// ID is reported before malformed input.
func (s *Service) Reschedule(ctx context.Context, id, date, window string) (Change, error) {
	appt, err := s.repo.Update(ctx, strings.TrimSpace(id), func(a *Appointment) error {
		if err := validateWhen(date, window); err != nil {
			return err
		}
		if err := transition(a, StatusRescheduled); err != nil {
			return err
		}
		a.Date = date
		a.TimeWindow = window
		a.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, appt, "rescheduled")
	return Change{Success: true, Message: "Appointment updated.", Appointment: appt}, nil
}

// Cancel terminates an active appointment. The reason may be empty.
func (s *Service) Cancel(ctx context.Context, id, reason string) (Change, error) {
	appt, err := s.repo.Update(ctx, strings.TrimSpace(id), func(a *Appointment) error {
		if err := transition(a, StatusCancelled); err != nil {
			return err
		}
		a.CancellationReason = reason
		a.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, appt, "cancelled")
	return Change{Success: true, Message: "Appointment cancelled.", Appointment: appt}, nil
}

func transition(a *Appointment, to Status) error {
	if a.Status == StatusCancelled {
		return &shared.InvalidTransitionError{ID: a.ID, From: string(a.Status), To: string(to)}
	}
	a.Status = to
	return nil
}

func validateWhen(date, window string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(date)); err != nil {
		return shared.NewValidation("date", "must be a YYYY-MM-DD date")
	}
	if strings.TrimSpace(window) == "" {
		return shared.NewValidation("time_window", "is required")
	}
	return nil
}

func (s *Service) record(ctx context.Context, appt Appointment, action string) {
	s.metrics.ObserveAppointment(string(appt.Status))
	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			Actor:    auditActor,
			Action:   eventPrefix + action,
			Entity:   entityName,
			EntityID: appt.ID,
			Meta: map[string]any{
				"customer_id": appt.CustomerID,
				"status":      string(appt.Status),
				"date":        appt.Date,
				"time":        appt.TimeWindow,
			},
			At: appt.UpdatedAt,
		})
		if err != nil {
			s.logger.Warn("audit appointment", slog.String("appointment_id", appt.ID), slog.Any("error", err))
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, eventPrefix+action, appt); err != nil {
			s.logger.Warn("publish appointment event", slog.String("appointment_id", appt.ID), slog.Any("error", err))
		}
	}
	s.logger.Info(fmt.Sprintf("appointment %s", action),
		slog.String("appointment_id", appt.ID),
		slog.String("status", string(appt.Status)))
}
