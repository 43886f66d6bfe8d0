package installation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillsdesk/skillsdesk/internal/platform/httpx"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// Handler exposes installation tools over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the installation HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers installation endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/availability", h.availability)
	r.Get("/plans", h.plans)
	r.Get("/slots", h.slots)
	r.Post("/appointments", h.book)
	r.Get("/appointments/{id}", h.get)
	r.Post("/appointments/{id}/reschedule", h.reschedule)
	r.Post("/appointments/{id}/cancel", h.cancel)
}

type bookRequest struct {
	CustomerID   string `json:"customer_id" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Date         string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	TimeWindow   string `json:"appointment_time" validate:"required"`
	Plan         string `json:"service_plan" validate:"required"`
	ContactPhone string `json:"contact_phone"`
}

type rescheduleRequest struct {
	Date       string `json:"new_date" validate:"required,datetime=2006-01-02"`
	TimeWindow string `json:"new_time" validate:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.CheckAvailability(q.Get("address"), q.Get("zip"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) plans(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Plans())
}

func (h *Handler) slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			httpx.RespondError(w, shared.NewValidation("offset", "must be a non-negative integer"))
			return
		}
		offset = v
	}
	page, err := h.service.Slots(SlotQuery{
		From:    q.Get("from"),
		To:      q.Get("to"),
		Weekday: q.Get("day"),
		Window:  q.Get("time"),
		Offset:  offset,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	booking, err := h.service.Book(r.Context(), BookInput{
		CustomerID:   req.CustomerID,
		Address:      req.Address,
		Date:         req.Date,
		TimeWindow:   req.TimeWindow,
		Plan:         req.Plan,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, booking)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	change, err := h.service.Reschedule(r.Context(), chi.URLParam(r, "id"), req.Date, req.TimeWindow)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, change)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	change, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, change)
}
