package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordPayment(t *testing.T, h *PaymentHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Record(e.NewContext(req, rec)))
	return rec
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	// Amount validation runs before any repository access, so an empty
	// handler is enough to exercise it.
	h := &PaymentHandler{}

	t.Run("negative", func(t *testing.T) {
		rec := recordPayment(t, h, `{"resident_id":5,"amount":-500}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "greater than zero")
	})

	t.Run("zero", func(t *testing.T) {
		rec := recordPayment(t, h, `{"resident_id":5,"amount":0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := recordPayment(t, h, `{"resident_id":5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
