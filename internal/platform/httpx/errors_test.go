package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", shared.NewNotFound("customer", "C9"), http.StatusNotFound},
		{"plan", &shared.PlanNotFoundError{Plan: "x"}, http.StatusNotFound},
		{"validation", shared.NewValidation("date_from", "bad"), http.StatusBadRequest},
		{"policy", &shared.PolicyViolationError{Cap: decimal.NewFromInt(100), Requested: decimal.NewFromInt(200)}, http.StatusUnprocessableEntity},
		{"transition", &shared.InvalidTransitionError{ID: "A", From: "CANCELLED", To: "RESCHEDULED"}, http.StatusConflict},
		{"replay", shared.ErrIdempotencyConflict, http.StatusConflict},
		{"other", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)
			require.Equal(t, tc.status, rr.Code)
			require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("secret connection string"))
	require.NotContains(t, rr.Body.String(), "secret")
}
