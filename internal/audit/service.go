// Package audit serves the audit trail of skill mutations.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// Entities that record audit entries.
var knownEntities = map[string]struct{}{
	"waiver":      {},
	"appointment": {},
	"roaming":     {},
}

// Reader lists audit entries. *shared.AuditLogger satisfies it.
type Reader interface {
	List(ctx context.Context, entity, entityID string) ([]shared.AuditLog, error)
}

// Entry is one line of the audit trail.
type Entry struct {
	At     time.Time      `json:"at"`
	Actor  string         `json:"actor"`
	Action string         `json:"action"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Trail is the audit history of a single entity.
type Trail struct {
	Entity   string  `json:"entity"`
	EntityID string  `json:"entity_id"`
	Entries  []Entry `json:"entries"`
}

// Service reads audit trails.
type Service struct {
	reader Reader
}

// NewService builds Service instance.
func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// Trail returns entries for the entity, oldest first.
func (s *Service) Trail(ctx context.Context, entity, entityID string) (Trail, error) {
	if s.reader == nil {
		return Trail{}, errors.New("audit: reader not configured")
	}
	entity = strings.ToLower(strings.TrimSpace(entity))
	entityID = strings.TrimSpace(entityID)
	if _, ok := knownEntities[entity]; !ok {
		return Trail{}, shared.NewValidation("entity", "must be one of waiver, appointment, roaming")
	}
	if entityID == "" {
		return Trail{}, shared.NewValidation("entity_id", "is required")
	}
	logs, err := s.reader.List(ctx, entity, entityID)
	if err != nil {
		return Trail{}, err
	}
	trail := Trail{Entity: entity, EntityID: entityID, Entries: make([]Entry, 0, len(logs))}
	for _, l := range logs {
		trail.Entries = append(trail.Entries, Entry{At: l.At, Actor: l.Actor, Action: l.Action, Meta: l.Meta})
	}
	return trail, nil
}
