// Package auth reads the session cookie into the echo context and guards
// API routes and pages by role.
package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/pkg/tokens"
)

const sessionKey = "session"

// Session decodes the session cookie when present. Requests without a valid
// cookie pass through anonymous; the Require* middlewares decide.
func Session(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(tokens.CookieName)
			if err == nil && ck.Value != "" {
				if s, err := tokens.Verify(ck.Value, secret); err == nil {
					setSession(c, s)
				}
			}
			return next(c)
		}
	}
}

func setSession(c echo.Context, s tokens.Session) {
	c.Set(sessionKey, s)
	c.Set("user_id", s.UserID)
	c.Set("role", s.Role)
}

func CurrentSession(c echo.Context) (tokens.Session, bool) {
	s, ok := c.Get(sessionKey).(tokens.Session)
	return s, ok
}

func UserID(c echo.Context) uint {
	s, _ := CurrentSession(c)
	return s.UserID
}
