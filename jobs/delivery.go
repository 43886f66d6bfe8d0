package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/skillsdesk/skillsdesk/internal/jobs"
)

// DeliveryJob hands queued messages to the outbound channel. Without an SMS
// gateway the outbound channel is the structured log.
type DeliveryJob struct {
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewDeliveryJob initialises the delivery handlers.
func NewDeliveryJob(logger *slog.Logger, metrics *jobmetrics.Metrics) *DeliveryJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryJob{Logger: logger, Metrics: metrics}
}

// Handlers lists the task handlers for worker registration.
func (j *DeliveryJob) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskWaiverNotify, Handler: j.HandleMessage},
		{Type: TaskInstallationConfirm, Handler: j.HandleMessage},
		{Type: TaskRoamingConfirm, Handler: j.HandleMessage},
		{Type: TaskWaiverEscalate, Handler: j.HandleEscalation},
	}
}

// HandleMessage delivers a customer text message.
func (j *DeliveryJob) HandleMessage(ctx context.Context, t *asynq.Task) (err error) {
	tracker := j.Metrics.Track(t.Type())
	defer func() { err = tracker.End(err) }()

	var payload MessagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.To) == "" {
		return fmt.Errorf("%s: no destination for customer %s: %w", t.Type(), payload.CustomerID, asynq.SkipRetry)
	}
	j.Logger.InfoContext(ctx, "message delivered",
		slog.String("task", t.Type()),
		slog.String("customer_id", payload.CustomerID),
		slog.String("to", payload.To),
		slog.String("reference", payload.Reference))
	return nil
}

// HandleEscalation routes a waiver escalation to the supervisor queue.
func (j *DeliveryJob) HandleEscalation(ctx context.Context, t *asynq.Task) (err error) {
	tracker := j.Metrics.Track(t.Type())
	defer func() { err = tracker.End(err) }()

	var payload EscalationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode escalation payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.TicketID == "" {
		return fmt.Errorf("escalation without ticket: %w", asynq.SkipRetry)
	}
	j.Logger.InfoContext(ctx, "escalation routed",
		slog.String("ticket_id", payload.TicketID),
		slog.String("customer_id", payload.CustomerID),
		slog.String("sla", payload.SLA),
		slog.String("reason", payload.Reason))
	return nil
}
