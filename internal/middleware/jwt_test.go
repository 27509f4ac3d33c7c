package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelane/ticketing/internal/utils"
)

func runProtected(t *testing.T, mw []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := func(c echo.Context) error {
		captured = c
		return c.String(http.StatusOK, "ok")
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	if captured == nil {
		captured = c
	}
	return rec, captured
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"
	tok, err := utils.NewAccessToken(secret, 42, "ADMIN", 15)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"valid token", "Bearer " + tok.Token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runProtected(t, []echo.MiddlewareFunc{JWTAuth(secret)}, tt.header)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, "ADMIN", 15)
	require.NoError(t, err)

	rec, _ := runProtected(t, []echo.MiddlewareFunc{JWTAuth("test-secret")}, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	const secret = "test-secret"
	tok, err := utils.NewAccessToken(secret, 42, "STAFF", 15)
	require.NoError(t, err)

	rec, c := runProtected(t, []echo.MiddlewareFunc{JWTAuth(secret)}, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get("staff_id"))
	assert.Equal(t, "STAFF", c.Get("role"))
}

func TestRequireRole(t *testing.T) {
	const secret = "test-secret"
	admin, err := utils.NewAccessToken(secret, 1, "ADMIN", 15)
	require.NoError(t, err)
	staff, err := utils.NewAccessToken(secret, 2, "STAFF", 15)
	require.NoError(t, err)

	mw := []echo.MiddlewareFunc{JWTAuth(secret), RequireRole("ADMIN")}

	rec, _ := runProtected(t, mw, "Bearer "+admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = runProtected(t, mw, "Bearer "+staff.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	rec, _ := runProtected(t, []echo.MiddlewareFunc{RequireRole("ADMIN")}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
