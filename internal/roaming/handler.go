package roaming

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillsdesk/skillsdesk/internal/platform/httpx"
)

// Handler exposes roaming tools over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the roaming HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers roaming endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/eligibility/{customerID}", h.eligibility)
	r.Get("/rates", h.rates)
	r.Post("/activations", h.activate)
	r.Post("/confirmations", h.confirm)
}

type activateRequest struct {
	CustomerID  string `json:"customer_id" validate:"required"`
	Destination string `json:"destination_country" validate:"required"`
	PackageType string `json:"package_type"`
}

type confirmRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Reference  string `json:"reference_number" validate:"required"`
	Phone      string `json:"phone_number" validate:"omitempty,e164"`
}

func (h *Handler) eligibility(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CheckEligibility(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) rates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quote, err := h.service.Rates(q.Get("destination"), q.Get("package"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	act, err := h.service.Activate(r.Context(), req.CustomerID, req.Destination, req.PackageType)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("roaming activated",
		slog.String("customer_id", act.CustomerID),
		slog.String("reference", act.ReferenceNumber),
		slog.String("country", act.Quote.CountryCode))
	httpx.JSON(w, http.StatusCreated, act)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.service.SendConfirmation(r.Context(), req.CustomerID, req.Reference, req.Phone)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, c)
}
