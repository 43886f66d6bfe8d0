package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

type sample struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestDecodeValidAcceptsGoodBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":"CUST001","date":"2024-05-06"}`))
	var s sample
	require.NoError(t, DecodeValid(req, validator.New(), &s))
	require.Equal(t, "CUST001", s.CustomerID)
}

func TestDecodeValidRejectsMissingField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2024-05-06"}`))
	var s sample
	err := DecodeValid(req, validator.New(), &s)
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Contains(t, err.Error(), "CustomerID failed required")
}

func TestDecodeValidRejectsUnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":"C","extra":1}`))
	var s sample
	require.ErrorIs(t, DecodeValid(req, validator.New(), &s), shared.ErrValidation)
}

func TestDecodeValidRejectsBadDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":"C","date":"next tuesday"}`))
	var s sample
	require.ErrorIs(t, DecodeValid(req, validator.New(), &s), shared.ErrValidation)
}
