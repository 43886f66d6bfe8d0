package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWaiverNotify delivers the waiver confirmation SMS.
	TaskWaiverNotify = "waiver:notify"
	// TaskWaiverEscalate hands a declined waiver to a supervisor.
	TaskWaiverEscalate = "waiver:escalate"
	// TaskInstallationConfirm delivers the booking confirmation SMS.
	TaskInstallationConfirm = "installation:confirm"
	// TaskRoamingConfirm delivers the roaming activation SMS.
	TaskRoamingConfirm = "roaming:confirm"
)

// MessagePayload describes a customer text message.
type MessagePayload struct {
	CustomerID string `json:"customer_id"`
	To         string `json:"to"`
	Reference  string `json:"reference"`
	Body       string `json:"body"`
}

// EscalationPayload describes a supervisor review request.
type EscalationPayload struct {
	TicketID   string `json:"ticket_id"`
	CustomerID string `json:"customer_id"`
	Reason     string `json:"reason"`
	SLA        string `json:"sla"`
}

// NewMessageTask constructs a customer message task of the given type.
func NewMessageTask(taskType string, payload MessagePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data, asynq.MaxRetry(5)), nil
}

// NewEscalationTask constructs a waiver escalation task.
func NewEscalationTask(payload EscalationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWaiverEscalate, data, asynq.MaxRetry(10)), nil
}
