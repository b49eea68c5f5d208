package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	items, err := h.Svc.List(ctx, auth.UserID(c))
	if err != nil {
		return serviceError(l, "list_addresses", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AddressHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	var req transport.AddressRequest
	if err := bindValid(c, l, "create_address", &req); err != nil {
		return err
	}
	a, err := h.Svc.Create(ctx, auth.UserID(c), req)
	if err != nil {
		return serviceError(l, "create_address", err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	id, err := paramID(c, l, "update_address", "id")
	if err != nil {
		return err
	}
	var req transport.AddressRequest
	if err := bindValid(c, l, "update_address", &req); err != nil {
		return err
	}
	a, err := h.Svc.Update(ctx, auth.UserID(c), id, req)
	if err != nil {
		return serviceError(l, "update_address", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) SetDefault(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.set_default")

	id, err := paramID(c, l, "set_default_address", "id")
	if err != nil {
		return err
	}
	a, err := h.Svc.SetDefault(ctx, auth.UserID(c), id)
	if err != nil {
		return serviceError(l, "set_default_address", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	id, err := paramID(c, l, "delete_address", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, auth.UserID(c), id); err != nil {
		return serviceError(l, "delete_address", err)
	}
	return c.NoContent(http.StatusNoContent)
}
