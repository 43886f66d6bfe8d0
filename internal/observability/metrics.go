package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the tool API.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	evaluations     *prometheus.CounterVec
	waiversApplied  prometheus.Counter
	waivedAmount    prometheus.Counter
	appointments    *prometheus.CounterVec
	roaming         *prometheus.CounterVec
}

// NewMetrics initialises the registry with HTTP and domain metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsdesk_http_requests_total",
		Help: "HTTP requests partitioned by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillsdesk_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsdesk_waiver_evaluations_total",
		Help: "Waiver eligibility evaluations by resulting tier.",
	}, []string{"tier"})
	applied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skillsdesk_waivers_applied_total",
		Help: "Waivers committed to the ledger.",
	})
	amount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skillsdesk_waived_amount_dollars_total",
		Help: "Sum of waived amounts in dollars.",
	})
	appointments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsdesk_appointments_total",
		Help: "Installation appointment transitions by resulting status.",
	}, []string{"status"})
	roaming := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsdesk_roaming_activations_total",
		Help: "Roaming activations by destination country code.",
	}, []string{"country"})
	registry.MustRegister(requests, duration, evaluations, applied, amount, appointments, roaming)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		evaluations:     evaluations,
		waiversApplied:  applied,
		waivedAmount:    amount,
		appointments:    appointments,
		roaming:         roaming,
	}
}

// Handler returns the http.Handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// ObserveEvaluation counts a scored waiver request.
func (m *Metrics) ObserveEvaluation(tier string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(tier).Inc()
}

// ObserveWaiver counts an applied waiver and its amount.
func (m *Metrics) ObserveWaiver(amount float64) {
	if m == nil {
		return
	}
	m.waiversApplied.Inc()
	if amount > 0 {
		m.waivedAmount.Add(amount)
	}
}

// ObserveAppointment counts an appointment entering status.
func (m *Metrics) ObserveAppointment(status string) {
	if m == nil {
		return
	}
	m.appointments.WithLabelValues(status).Inc()
}

// ObserveRoamingActivation counts an activation for a destination.
func (m *Metrics) ObserveRoamingActivation(country string) {
	if m == nil {
		return
	}
	m.roaming.WithLabelValues(country).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
