package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/validate"
)

type AdminHTTP struct {
	Users         *service.UserAdminService
	Settings      *service.SettingsService
	Notifications *service.NotificationService
	Reports       *service.ReportService
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	users, err := h.Users.List(ctx, c.QueryParam("q"))
	if err != nil {
		return serviceError(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_user")

	id, err := paramID(c, l, "update_user", "id")
	if err != nil {
		return err
	}
	var req transport.AdminUserUpdateRequest
	if err := bindValid(c, l, "update_user", &req); err != nil {
		return err
	}
	u, err := h.Users.Update(ctx, auth.UserID(c), id, req)
	if err != nil {
		return serviceError(l, "update_user", err)
	}
	l.Info("update_user_success", "user_id", u.ID, "role", u.Role, "account_status", u.AccountStatus)
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHTTP) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_settings")

	st, err := h.Settings.Get(ctx)
	if err != nil {
		return serviceError(l, "get_settings", err)
	}
	return c.JSON(http.StatusOK, st)
}

// UpdateSettings accepts JSON or a multipart form carrying the QRIS image
// under "qris".
func (h *AdminHTTP) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_settings")

	var req transport.SettingsRequest
	if isMultipart(c) {
		form, err := c.FormParams()
		if err != nil {
			l.Warn("update_settings_error", "status", 400, "reason", "invalid form", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
		}
		if req, err = settingsFromForm(form); err != nil {
			l.Warn("update_settings_error", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err := c.Validate(&req); err != nil {
			l.Warn("update_settings_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
		}
	} else if err := bindValid(c, l, "update_settings", &req); err != nil {
		return err
	}

	qris, err := optionalFile(c, "qris")
	if err != nil {
		l.Warn("update_settings_error", "status", 400, "reason", "invalid qris upload", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid qris upload")
	}

	st, err := h.Settings.Update(ctx, req, qris)
	if err != nil {
		return serviceError(l, "update_settings", err)
	}
	l.Info("update_settings_success")
	return c.JSON(http.StatusOK, st)
}

func (h *AdminHTTP) ListShippingRates(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_shipping_rates")

	items, err := h.Settings.ListShippingRates(ctx)
	if err != nil {
		return serviceError(l, "list_shipping_rates", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) CreateShippingRate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_shipping_rate")

	var req transport.ShippingRateRequest
	if err := bindValid(c, l, "create_shipping_rate", &req); err != nil {
		return err
	}
	sr, err := h.Settings.CreateShippingRate(ctx, req)
	if err != nil {
		return serviceError(l, "create_shipping_rate", err)
	}
	return c.JSON(http.StatusCreated, sr)
}

func (h *AdminHTTP) UpdateShippingRate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_shipping_rate")

	id, err := paramID(c, l, "update_shipping_rate", "id")
	if err != nil {
		return err
	}
	var req transport.ShippingRateRequest
	if err := bindValid(c, l, "update_shipping_rate", &req); err != nil {
		return err
	}
	sr, err := h.Settings.UpdateShippingRate(ctx, id, req)
	if err != nil {
		return serviceError(l, "update_shipping_rate", err)
	}
	return c.JSON(http.StatusOK, sr)
}

func (h *AdminHTTP) DeleteShippingRate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_shipping_rate")

	id, err := paramID(c, l, "delete_shipping_rate", "id")
	if err != nil {
		return err
	}
	if err := h.Settings.DeleteShippingRate(ctx, id); err != nil {
		return serviceError(l, "delete_shipping_rate", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_notifications")

	list, err := h.Notifications.List(ctx)
	if err != nil {
		return serviceError(l, "list_notifications", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHTTP) MarkNotificationRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.mark_notification_read")

	id, err := paramID(c, l, "mark_notification_read", "id")
	if err != nil {
		return err
	}
	if err := h.Notifications.MarkRead(ctx, id); err != nil {
		return serviceError(l, "mark_notification_read", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notification marked as read"})
}

func (h *AdminHTTP) MarkAllNotificationsRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.mark_all_notifications_read")

	n, err := h.Notifications.MarkAllRead(ctx)
	if err != nil {
		return serviceError(l, "mark_all_notifications_read", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	d, err := h.Reports.Dashboard(ctx)
	if err != nil {
		return serviceError(l, "dashboard", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHTTP) SalesReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.sales_report")

	r, err := h.Reports.Sales(ctx, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return serviceError(l, "sales_report", err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *AdminHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.search")

	res, err := h.Reports.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return serviceError(l, "admin_search", err)
	}
	return c.JSON(http.StatusOK, res)
}
