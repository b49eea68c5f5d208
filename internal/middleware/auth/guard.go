package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/pkg/tokens"
)

var (
	adminPrefixes = []string{"/admin"}
	loginPrefixes = []string{"/katalog", "/buku", "/keranjang", "/checkout", "/profil", "/pesanan"}
	guestPaths    = []string{"/login", "/register"}
)

func hasPrefix(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if p == pre || strings.HasPrefix(p, pre+"/") {
			return true
		}
	}
	return false
}

func loginRedirect(p string) string {
	return "/login?redirect=" + url.QueryEscape(p)
}

// Decide classifies a page path against the current session. ok is false
// when the request must be redirected to the returned location.
func Decide(p string, s *tokens.Session) (redirect string, ok bool) {
	switch {
	case hasPrefix(p, adminPrefixes):
		if s == nil {
			return loginRedirect(p), false
		}
		if !s.IsAdmin() {
			return "/", false
		}
	case hasPrefix(p, loginPrefixes):
		if s == nil {
			return loginRedirect(p), false
		}
	case hasPrefix(p, guestPaths):
		if s != nil {
			if s.IsAdmin() {
				return "/admin", false
			}
			return "/katalog", false
		}
	}
	return "", true
}

// PageGuard applies Decide to every non-API GET/HEAD request.
func PageGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		p := req.URL.Path
		if strings.HasPrefix(p, "/api/") || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
			return next(c)
		}

		var sp *tokens.Session
		if s, ok := CurrentSession(c); ok {
			sp = &s
		}
		if to, ok := Decide(p, sp); !ok {
			return c.Redirect(http.StatusFound, to)
		}
		return next(c)
	}
}
