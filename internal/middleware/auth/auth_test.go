package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukucerdas/bookstore/pkg/tokens"
)

var secret = []byte("middleware-test-secret")

func TestDecide(t *testing.T) {
	user := &tokens.Session{UserID: 2, Role: "user"}
	admin := &tokens.Session{UserID: 1, Role: "admin"}

	tests := []struct {
		name     string
		path     string
		session  *tokens.Session
		redirect string
		ok       bool
	}{
		{"admin anonymous", "/admin/buku", nil, "/login?redirect=%2Fadmin%2Fbuku", false},
		{"admin as user", "/admin", user, "/", false},
		{"admin as admin", "/admin/pesanan", admin, "", true},
		{"login page anonymous", "/keranjang", nil, "/login?redirect=%2Fkeranjang", false},
		{"login page user", "/pesanan/12", user, "", true},
		{"guest page user", "/login", user, "/katalog", false},
		{"guest page admin", "/register", admin, "/admin", false},
		{"guest page anonymous", "/login", nil, "", true},
		{"public page", "/", nil, "", true},
		{"prefix lookalike", "/administrasi", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, ok := Decide(tt.path, tt.session)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.redirect, to)
		})
	}
}

func serve(t *testing.T, method, target, token string, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(Session(secret))
	e.Add(method, "/*", h, mws...)

	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: tokens.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := tokens.CreateToken(tokens.Session{UserID: 7, Username: "u", Role: role}, secret, time.Now())
	require.NoError(t, err)
	return tok
}

func ok(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequireAuth(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(t, http.MethodGet, "/api/cart", "", ok, RequireAuth).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, http.MethodGet, "/api/cart", "garbage", ok, RequireAuth).Code)

	var got uint
	rec := serve(t, http.MethodGet, "/api/cart", token(t, "user"), func(c echo.Context) error {
		got = UserID(c)
		return ok(c)
	}, RequireAuth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), got)
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(t, http.MethodGet, "/api/admin/x", "", ok, RequireAdmin).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, http.MethodGet, "/api/admin/x", token(t, "user"), ok, RequireAdmin).Code)
	assert.Equal(t, http.StatusOK, serve(t, http.MethodGet, "/api/admin/x", token(t, "admin"), ok, RequireAdmin).Code)
}

func TestPageGuard(t *testing.T) {
	rec := serve(t, http.MethodGet, "/checkout", "", ok, PageGuard)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fcheckout", rec.Header().Get(echo.HeaderLocation))

	rec = serve(t, http.MethodGet, "/login", token(t, "admin"), ok, PageGuard)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))

	assert.Equal(t, http.StatusOK, serve(t, http.MethodGet, "/api/cart", "", ok, PageGuard).Code)
	assert.Equal(t, http.StatusOK, serve(t, http.MethodPost, "/checkout", "", ok, PageGuard).Code)
}
