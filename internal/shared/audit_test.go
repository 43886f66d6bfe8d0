package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuditLoggerValidatesEntries(t *testing.T) {
	logger := NewAuditLogger(nil)
	err := logger.Record(context.Background(), AuditLog{Action: "waiver.applied"})
	require.Error(t, err)
}

func TestAuditLoggerWithoutPoolDropsEntries(t *testing.T) {
	logger := NewAuditLogger(nil)
	err := logger.Record(context.Background(), AuditLog{Action: "waiver.applied", Entity: "waiver", EntityID: "WV-1"})
	require.NoError(t, err)

	entries, err := logger.List(context.Background(), "waiver", "WV-1")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestNilAuditLogger(t *testing.T) {
	var logger *AuditLogger
	require.Error(t, logger.Record(context.Background(), AuditLog{Action: "a", Entity: "b", EntityID: "c"}))
}
