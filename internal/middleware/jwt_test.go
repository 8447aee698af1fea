package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredmak/hostel-manager/internal/utils"
)

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := func(c echo.Context) error {
		reached = true
		return c.String(http.StatusOK, "ok")
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, reached
}

func TestJWTAuthAndRole(t *testing.T) {
	const secret = "test-secret"
	tok, err := utils.NewAccessToken(secret, 7, "MANAGER", 5)
	require.NoError(t, err)

	t.Run("valid token and role", func(t *testing.T) {
		rec, reached := runProtected(t, "Bearer "+tok.Token, JWTAuth(secret), RequireRole("MANAGER"))
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, reached := runProtected(t, "", JWTAuth(secret))
		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec, reached := runProtected(t, "Bearer "+tok.Token, JWTAuth("other-secret"))
		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		rec, reached := runProtected(t, "Bearer "+tok.Token, JWTAuth(secret), RequireRole("AUDITOR"))
		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
