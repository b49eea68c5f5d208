package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/tokens"
	"github.com/bukucerdas/bookstore/pkg/validate"
)

type AuthHTTP struct {
	Svc           *service.AuthService
	SecureCookies bool
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, envelope{Success: code < 400, Message: msg, Data: data})
}

// bindAuth is bindValid with envelope shaped failures.
func bindAuth(c echo.Context, req any) (int, *envelope) {
	if err := c.Bind(req); err != nil {
		return http.StatusBadRequest, &envelope{Message: "invalid body"}
	}
	if err := c.Validate(req); err != nil {
		return http.StatusBadRequest, &envelope{Message: "validation failed", Errors: validate.Fields(err)}
	}
	return 0, nil
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if code, env := bindAuth(c, &req); env != nil {
		l.Warn("register_error", "status", code, "reason", env.Message, "fields", env.Errors)
		return c.JSON(code, env)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			l.Error("register_error", "status", code, "reason", "cannot create user", "error", err)
			return respond(c, code, "registration failed", nil)
		}
		l.Warn("register_error", "status", code, "reason", err.Error())
		return respond(c, code, err.Error(), nil)
	}

	l.Info("register_success", "user_id", user.ID)
	return respond(c, http.StatusCreated, "registration successful", user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if code, env := bindAuth(c, &req); env != nil {
		l.Warn("login_error", "status", code, "reason", env.Message, "fields", env.Errors)
		return c.JSON(code, env)
	}
	if req.Login() == "" {
		l.Warn("login_error", "status", 400, "reason", "identifier missing")
		return c.JSON(http.StatusBadRequest, envelope{
			Message: "validation failed",
			Errors:  map[string]string{"identifier": "required"},
		})
	}

	res, err := h.Svc.Login(ctx, req.Login(), req.Password)
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			l.Error("login_error", "status", code, "reason", "login failed", "error", err)
			return respond(c, code, "login failed", nil)
		}
		l.Warn("login_error", "status", code, "reason", err.Error())
		return respond(c, code, err.Error(), nil)
	}

	c.SetCookie(tokens.SessionCookie(res.Token, h.SecureCookies))
	l.Info("login_success", "user_id", res.User.ID)
	return respond(c, http.StatusOK, "login successful", echo.Map{
		"user":      res.User,
		"expiresAt": res.ExpiresAt,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.ExpiredSessionCookie(h.SecureCookies))
	logging.FromContext(c.Request().Context()).Info("logout_success", "user_id", auth.UserID(c))
	return respond(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	user, err := h.Svc.Me(ctx, auth.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.SetCookie(tokens.ExpiredSessionCookie(h.SecureCookies))
			l.Warn("me_error", "status", 401, "reason", "session user no longer exists")
			return respond(c, http.StatusUnauthorized, "session expired", nil)
		}
		l.Error("me_error", "status", 500, "reason", "cannot load user", "error", err)
		return respond(c, http.StatusInternalServerError, "cannot load user", nil)
	}
	return respond(c, http.StatusOK, "ok", user)
}
