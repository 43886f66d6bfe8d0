package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/observability"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("SLOTS_LENIENT_DATES", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	require.Equal(t, "TECH-99", cfg.TechnicianID)
	require.True(t, cfg.SlotsLenientDates)
	require.Equal(t, 92, cfg.SlotsMaxSpanDays)
	require.Empty(t, cfg.AMQPURL)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "0")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsNonPositiveSlotSpan(t *testing.T) {
	t.Setenv("SLOTS_MAX_SPAN_DAYS", "0")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestNewLoggerHonoursFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.True(t, strings.HasPrefix(out, "{"))
	require.Contains(t, out, `"msg":"shown"`)
}

func TestRouterMountsHealthAndMetrics(t *testing.T) {
	ledger := customers.NewLedger()
	require.NoError(t, ledger.Put(customers.Record{ID: "CUST001", Name: "Ada", Status: customers.StatusActive, AccountType: customers.AccountPostpaid}))

	router := NewRouter(RouterParams{
		Config:           &Config{AppEnv: "production", RateLimitPerMin: 100},
		CustomersHandler: customers.NewHandler(nil, customers.NewService(ledger)),
		Metrics:          observability.NewMetrics(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://api.local/healthz", nil))
	require.Equal(t, http.StatusMovedPermanently, rec.Code, "production redirects plain http")

	req := httptest.NewRequest(http.MethodGet, "http://api.local/healthz", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "http://api.local/customers/CUST001", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "http://api.local/metrics", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "skillsdesk_http_requests_total")
}

func TestRouterRateLimits(t *testing.T) {
	router := NewRouter(RouterParams{Config: &Config{RateLimitPerMin: 2}})
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestInTestModeFollowsEnvironment(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())
	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	require.False(t, InTestMode())
}
