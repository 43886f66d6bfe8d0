package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/skillsdesk/skillsdesk/internal/installation"
	"github.com/skillsdesk/skillsdesk/internal/roaming"
	"github.com/skillsdesk/skillsdesk/internal/waiver"
)

// Enqueuer submits tasks to the queue. *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher turns skill notifications into queued tasks.
type Dispatcher struct {
	enqueuer Enqueuer
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(enqueuer Enqueuer) *Dispatcher {
	return &Dispatcher{enqueuer: enqueuer}
}

// NotifyWaiver queues the waiver confirmation message.
func (d *Dispatcher) NotifyWaiver(ctx context.Context, n waiver.Notice) error {
	task, err := NewMessageTask(TaskWaiverNotify, MessagePayload{
		CustomerID: n.CustomerID,
		To:         n.Phone,
		Reference:  n.WaiverID,
		Body:       n.Content,
	})
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

// EscalateWaiver queues a supervisor review.
func (d *Dispatcher) EscalateWaiver(ctx context.Context, esc waiver.Escalation, reason string) error {
	task, err := NewEscalationTask(EscalationPayload{
		TicketID:   esc.TicketID,
		CustomerID: esc.CustomerID,
		Reason:     reason,
		SLA:        esc.SLA,
	})
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

// ConfirmInstallation queues the booking confirmation message.
func (d *Dispatcher) ConfirmInstallation(ctx context.Context, appt installation.Appointment) error {
	task, err := NewMessageTask(TaskInstallationConfirm, MessagePayload{
		CustomerID: appt.CustomerID,
		To:         appt.ContactPhone,
		Reference:  appt.ID,
		Body: fmt.Sprintf("Your %s installation is booked for %s, %s. Technician %s. Ref: %s.",
			appt.Plan, appt.Date, appt.TimeWindow, appt.TechnicianID, appt.ID),
	})
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

// ConfirmRoaming queues the roaming activation message.
func (d *Dispatcher) ConfirmRoaming(ctx context.Context, c roaming.Confirmation) error {
	task, err := NewMessageTask(TaskRoamingConfirm, MessagePayload{
		CustomerID: c.CustomerID,
		To:         c.SentTo,
		Reference:  c.Reference,
		Body:       c.Content,
	})
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *Dispatcher) enqueue(ctx context.Context, task *asynq.Task) error {
	if d == nil || d.enqueuer == nil {
		return errors.New("jobs: dispatcher not configured")
	}
	_, err := d.enqueuer.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
