package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/skillsdesk/skillsdesk/internal/audit"
	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/installation"
	"github.com/skillsdesk/skillsdesk/internal/observability"
	"github.com/skillsdesk/skillsdesk/internal/roaming"
	"github.com/skillsdesk/skillsdesk/internal/waiver"
	"github.com/skillsdesk/skillsdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	CustomersHandler    *customers.Handler
	WaiverHandler       *waiver.Handler
	InstallationHandler *installation.Handler
	RoamingHandler      *roaming.Handler
	AuditHandler        *audit.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router for the skill tool API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.CustomersHandler != nil {
		r.Route("/customers", params.CustomersHandler.MountRoutes)
	}
	if params.WaiverHandler != nil {
		r.Route("/waivers", params.WaiverHandler.MountRoutes)
	}
	if params.InstallationHandler != nil {
		r.Route("/installations", params.InstallationHandler.MountRoutes)
	}
	if params.RoamingHandler != nil {
		r.Route("/roaming", params.RoamingHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	return r
}
