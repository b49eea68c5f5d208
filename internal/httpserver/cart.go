package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	view, err := h.Svc.GetCart(ctx, auth.UserID(c))
	if err != nil {
		return serviceError(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddToCartRequest
	if err := bindValid(c, l, "add_item", &req); err != nil {
		return err
	}
	item, err := h.Svc.AddItem(ctx, auth.UserID(c), req)
	if err != nil {
		return serviceError(l, "add_item", err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	id, err := paramID(c, l, "update_item", "itemId")
	if err != nil {
		return err
	}
	var req transport.UpdateCartItemRequest
	if err := bindValid(c, l, "update_item", &req); err != nil {
		return err
	}
	item, err := h.Svc.UpdateItem(ctx, auth.UserID(c), id, req.Quantity)
	if err != nil {
		return serviceError(l, "update_item", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	id, err := paramID(c, l, "remove_item", "itemId")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveItem(ctx, auth.UserID(c), id); err != nil {
		return serviceError(l, "remove_item", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	var req transport.CheckoutRequest
	if err := bindValid(c, l, "checkout", &req); err != nil {
		return err
	}
	order, err := h.Svc.Checkout(ctx, auth.UserID(c), req)
	if err != nil {
		return serviceError(l, "checkout", err)
	}
	l.Info("checkout_success", "order_id", order.ID, "order_code", order.OrderCode, "total_due", order.TotalDue)
	return c.JSON(http.StatusCreated, order)
}

func (h *CartHTTP) ShippingLookup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.shipping_lookup")

	var req transport.ShippingLookupRequest
	if err := bindValid(c, l, "shipping_lookup", &req); err != nil {
		return err
	}
	quote, err := h.Svc.ShippingQuote(ctx, req.City)
	if err != nil {
		return serviceError(l, "shipping_lookup", err)
	}
	return c.JSON(http.StatusOK, quote)
}

func (h *CartHTTP) PaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.payment_methods")

	info, err := h.Svc.PaymentMethods(ctx)
	if err != nil {
		return serviceError(l, "payment_methods", err)
	}
	return c.JSON(http.StatusOK, info)
}
