package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

type stubReader struct {
	logs []shared.AuditLog
	err  error
	seen []string
}

func (s *stubReader) List(ctx context.Context, entity, entityID string) ([]shared.AuditLog, error) {
	s.seen = append(s.seen, entity+"/"+entityID)
	return s.logs, s.err
}

func newRouter(reader Reader) http.Handler {
	r := chi.NewRouter()
	r.Route("/audit", NewHandler(nil, NewService(reader)).MountRoutes)
	return r
}

func TestTrailListsEntries(t *testing.T) {
	at := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	reader := &stubReader{logs: []shared.AuditLog{
		{Actor: "skills-agent", Action: "installation.booked", Entity: "appointment", EntityID: "APPT-1", At: at},
		{Actor: "skills-agent", Action: "installation.cancelled", Entity: "appointment", EntityID: "APPT-1", At: at.Add(time.Hour), Meta: map[string]any{"reason": "moved"}},
	}}

	rec := httptest.NewRecorder()
	newRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/Appointment/APPT-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"appointment/APPT-1"}, reader.seen)

	var trail Trail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trail))
	require.Len(t, trail.Entries, 2)
	require.Equal(t, "installation.cancelled", trail.Entries[1].Action)
	require.Equal(t, "moved", trail.Entries[1].Meta["reason"])
}

func TestTrailRejectsUnknownEntity(t *testing.T) {
	reader := &stubReader{}
	rec := httptest.NewRecorder()
	newRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/journal/1", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, reader.seen)
}

func TestTrailHidesStorageErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubReader{err: errors.New("pg: connection refused")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/waiver/WV-1", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestTrailWithoutPoolIsEmpty(t *testing.T) {
	trail, err := NewService(shared.NewAuditLogger(nil)).Trail(context.Background(), "roaming", "ROAM-1")
	require.NoError(t, err)
	require.Empty(t, trail.Entries)
}
