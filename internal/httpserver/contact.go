package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req transport.ContactRequest
	if err := bindValid(c, l, "contact_submit", &req); err != nil {
		return err
	}
	m, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return serviceError(l, "contact_submit", err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *ContactHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return serviceError(l, "contact_list", err)
	}
	return c.JSON(http.StatusOK, items)
}
