package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, ok := CurrentSession(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		if !s.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
