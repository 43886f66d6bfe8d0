package customers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillsdesk/skillsdesk/internal/platform/httpx"
)

// Handler exposes customer lookups over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers customer routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}", h.verify)
	r.Get("/{id}/balance", h.balance)
	r.Get("/{id}/history", h.history)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.service.Balance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bal)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	hist, err := h.service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, hist)
}
