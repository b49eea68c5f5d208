package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/internal/util"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) Eligibility(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.eligibility")

	bookID, ok := util.ParseID(c.QueryParam("bookId"))
	if !ok {
		l.Warn("review_eligibility_error", "status", 400, "reason", "invalid bookId")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bookId")
	}
	el, err := h.Svc.Eligibility(ctx, auth.UserID(c), bookID)
	if err != nil {
		return serviceError(l, "review_eligibility", err)
	}
	return c.JSON(http.StatusOK, el)
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	var req transport.ReviewRequest
	if err := bindValid(c, l, "create_review", &req); err != nil {
		return err
	}
	rv, err := h.Svc.Create(ctx, auth.UserID(c), req)
	if err != nil {
		return serviceError(l, "create_review", err)
	}
	return c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHTTP) ListForBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list_for_book")

	id, err := paramID(c, l, "list_reviews", "id")
	if err != nil {
		return err
	}
	items, err := h.Svc.ListForBook(ctx, id)
	if err != nil {
		return serviceError(l, "list_reviews", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReviewHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	id, err := paramID(c, l, "delete_review", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(l, "delete_review", err)
	}
	return c.NoContent(http.StatusNoContent)
}
