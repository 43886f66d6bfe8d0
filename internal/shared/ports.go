package shared

import "context"

// EventPublisher emits domain events after a state change commits.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

// AuditRecorder persists audit entries for committed mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log AuditLog) error
}
