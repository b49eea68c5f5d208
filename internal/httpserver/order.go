package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_mine")

	items, err := h.Svc.ListMine(ctx, auth.UserID(c))
	if err != nil {
		return serviceError(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) GetMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_mine")

	id, err := paramID(c, l, "get_order", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.GetMine(ctx, auth.UserID(c), id)
	if err != nil {
		return serviceError(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) UploadProof(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.upload_proof")

	id, err := paramID(c, l, "upload_proof", "id")
	if err != nil {
		return err
	}
	fh, err := optionalFile(c, "file")
	if err != nil || fh == nil {
		l.Warn("upload_proof_error", "status", 400, "reason", "file is required", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	o, err := h.Svc.UploadProof(ctx, auth.UserID(c), id, fh)
	if err != nil {
		return serviceError(l, "upload_proof", err)
	}
	l.Info("upload_proof_success", "order_id", o.ID)
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := paramID(c, l, "cancel_order", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.Cancel(ctx, auth.UserID(c), id)
	if err != nil {
		return serviceError(l, "cancel_order", err)
	}
	l.Info("cancel_order_success", "order_id", o.ID)
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) AdminList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_list")

	items, err := h.Svc.AdminList(ctx, repo.OrderFilter{
		OrderStatus:   c.QueryParam("status"),
		PaymentStatus: c.QueryParam("paymentStatus"),
		Q:             c.QueryParam("q"),
	})
	if err != nil {
		return serviceError(l, "admin_list_orders", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) AdminGet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_get")

	id, err := paramID(c, l, "admin_get_order", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.AdminGet(ctx, id)
	if err != nil {
		return serviceError(l, "admin_get_order", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) AdminUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_update")

	id, err := paramID(c, l, "admin_update_order", "id")
	if err != nil {
		return err
	}
	var req transport.UpdateOrderRequest
	if err := bindValid(c, l, "admin_update_order", &req); err != nil {
		return err
	}
	o, err := h.Svc.AdminUpdate(ctx, id, req)
	if err != nil {
		return serviceError(l, "admin_update_order", err)
	}
	l.Info("admin_update_order_success", "order_id", o.ID, "order_status", o.OrderStatus, "payment_status", o.PaymentStatus)
	return c.JSON(http.StatusOK, o)
}
