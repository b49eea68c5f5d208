package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	u, err := h.Svc.Get(ctx, auth.UserID(c))
	if err != nil {
		return serviceError(l, "get_profile", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")

	var req transport.ProfileRequest
	if err := bindValid(c, l, "update_profile", &req); err != nil {
		return err
	}
	u, err := h.Svc.Update(ctx, auth.UserID(c), req)
	if err != nil {
		return serviceError(l, "update_profile", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHTTP) UpdatePhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update_photo")

	fh, err := optionalFile(c, "file")
	if err != nil || fh == nil {
		l.Warn("update_photo_error", "status", 400, "reason", "file is required", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	u, err := h.Svc.UpdatePhoto(ctx, auth.UserID(c), fh)
	if err != nil {
		return serviceError(l, "update_photo", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.change_password")

	var req transport.PasswordRequest
	if err := bindValid(c, l, "change_password", &req); err != nil {
		return err
	}
	if err := h.Svc.ChangePassword(ctx, auth.UserID(c), req); err != nil {
		return serviceError(l, "change_password", err)
	}
	l.Info("change_password_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
