package waiver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/skillsdesk/skillsdesk/internal/platform/httpx"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyModule = "waiver"
)

// IdempotencyGuard rejects replayed mutating requests.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// Handler exposes waiver tools over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	guard    IdempotencyGuard
}

// NewHandler constructs the waiver HTTP handler. guard may be nil.
func NewHandler(logger *slog.Logger, service *Service, guard IdempotencyGuard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New(), guard: guard}
}

// MountRoutes registers waiver endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/policy", h.policy)
	r.Post("/eligibility", h.evaluate)
	r.Post("/", h.apply)
	r.Get("/customers/{customerID}", h.list)
	r.Post("/notifications", h.notify)
	r.Get("/prevention/{customerID}", h.prevention)
	r.Post("/escalations", h.escalate)
}

type evaluateRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Reason     string `json:"reason"`
}

type applyRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason" validate:"required"`
}

type notifyRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	WaiverID   string          `json:"waiver_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type escalateRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

func (h *Handler) policy(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Policy())
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	eval, err := h.service.Evaluate(r.Context(), req.CustomerID, req.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, eval)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key != "" && h.guard != nil {
		if err := h.guard.CheckAndInsert(r.Context(), key, idempotencyModule); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	receipt, err := h.service.Apply(r.Context(), ApplyInput{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Reason:     req.Reason,
	})
	if err != nil {
		if key != "" && h.guard != nil {
			if delErr := h.guard.Delete(r.Context(), key, idempotencyModule); delErr != nil {
				h.logger.Warn("release idempotency key", slog.String("key", key), slog.Any("error", delErr))
			}
		}
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrPolicyViolation) && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("apply waiver", slog.String("customer_id", req.CustomerID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, receipt)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Waivers(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	note, err := h.service.Notify(r.Context(), req.CustomerID, req.WaiverID, req.Amount)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, note)
}

func (h *Handler) prevention(w http.ResponseWriter, r *http.Request) {
	tips, err := h.service.RecommendPrevention(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tips)
}

func (h *Handler) escalate(w http.ResponseWriter, r *http.Request) {
	var req escalateRequest
	if err := httpx.DecodeValid(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	esc, err := h.service.Escalate(r.Context(), req.CustomerID, req.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, esc)
}
