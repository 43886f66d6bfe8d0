package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents a record stored in audit_logs.
type AuditLog struct {
	Actor    string         `db:"actor"`
	Action   string         `db:"action"`
	Entity   string         `db:"entity"`
	EntityID string         `db:"entity_id"`
	Meta     map[string]any `db:"meta"`
	At       time.Time      `db:"occurred_at"`
}

// ErrAuditDuplicate indicates the entry was already recorded.
var ErrAuditDuplicate = errors.New("audit entry already recorded")

// AuditLogger writes records into audit_logs. A logger without a pool
// validates entries and drops them.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger. pool may be nil.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("audit log requires action/entity/entity_id")
	}
	if l.pool == nil {
		return nil
	}
	if log.At.IsZero() {
		log.At = time.Now().UTC()
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO audit_logs (actor, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, $6)`, log.Actor, log.Action, log.Entity, log.EntityID, metaJSON, log.At)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAuditDuplicate
		}
		return err
	}
	return nil
}

// List returns the audit trail of an entity, oldest first.
func (l *AuditLogger) List(ctx context.Context, entity, entityID string) ([]AuditLog, error) {
	if l == nil || l.pool == nil {
		return nil, nil
	}
	rows, err := l.pool.Query(ctx, `SELECT actor, action, entity, entity_id, meta, occurred_at FROM audit_logs WHERE entity = $1 AND entity_id = $2 ORDER BY occurred_at`, entity, entityID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[AuditLog])
}
