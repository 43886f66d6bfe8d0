package customers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/customers"
	_ "github.com/skillsdesk/skillsdesk/testing"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	ledger, err := customers.LoadLedger("")
	require.NoError(t, err)
	h := customers.NewHandler(nil, customers.NewService(ledger))
	r := chi.NewRouter()
	r.Route("/customers", h.MountRoutes)
	return r
}

func TestHistoryEndpoint(t *testing.T) {
	router := newRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/customers/CUST003/history", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body customers.History
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 60, body.TenureMonths)
	require.Equal(t, 5, body.LatePayments12m)
	require.Equal(t, 3, body.PreviousWaivers)
	require.Equal(t, 45, body.DaysOverdue)
}

func TestBalanceEndpoint(t *testing.T) {
	router := newRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/customers/CUST001/balance", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"currency":"USD"`)
	require.Contains(t, rr.Body.String(), `"balance":"25.5"`)
}

func TestUnknownCustomerReturnsNotFound(t *testing.T) {
	router := newRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/customers/CUST999", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "CUST999")
}
