package audit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/skillsdesk/skillsdesk/internal/platform/httpx"
)

const (
	rateLimit  = 30
	rateWindow = time.Minute
)

// Handler exposes the audit trail over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers audit routes. Trail reads hit Postgres, so they get a
// tighter limit than the rest of the API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(httprate.Limit(rateLimit, rateWindow, httprate.WithKeyFuncs(httprate.KeyByIP)))
		gr.Get("/{entity}/{entityID}", h.trail)
	})
}

func (h *Handler) trail(w http.ResponseWriter, r *http.Request) {
	trail, err := h.service.Trail(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "entityID"))
	if err != nil {
		h.logger.Warn("audit trail", slog.String("entity", chi.URLParam(r, "entity")), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trail)
}
