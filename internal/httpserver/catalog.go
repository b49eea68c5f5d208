package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/internal/util"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/validate"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_books")

	q := service.BookQuery{
		Q:    c.QueryParam("q"),
		Sort: c.QueryParam("sort"),
		Page: util.ParseIntDefault(c.QueryParam("page"), 1),
		Size: util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, ok := util.ParseID(raw)
		if !ok {
			l.Warn("list_books_error", "status", 400, "reason", "invalid categoryId", "category_id", raw)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid categoryId")
		}
		q.CategoryID = id
	}

	page, err := h.Svc.ListPublic(ctx, q)
	if err != nil {
		return serviceError(l, "list_books", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_book")

	id, err := paramID(c, l, "get_book", "id")
	if err != nil {
		return err
	}
	detail, err := h.Svc.GetPublic(ctx, id)
	if err != nil {
		return serviceError(l, "get_book", err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *CatalogHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_books")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	res, err := h.Svc.SearchBooks(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return serviceError(l, "search_books", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return serviceError(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) AdminListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.admin_list_books")

	items, err := h.Svc.ListAdmin(ctx)
	if err != nil {
		return serviceError(l, "admin_list_books", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) AdminGetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.admin_get_book")

	id, err := paramID(c, l, "admin_get_book", "id")
	if err != nil {
		return err
	}
	book, err := h.Svc.GetAdmin(ctx, id)
	if err != nil {
		return serviceError(l, "admin_get_book", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_book")

	var req transport.CreateBookRequest
	if err := bindValid(c, l, "create_book", &req); err != nil {
		return err
	}
	cover, err := optionalFile(c, "cover")
	if err != nil {
		l.Warn("create_book_error", "status", 400, "reason", "invalid cover upload", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cover upload")
	}

	book, err := h.Svc.CreateBook(ctx, req, cover)
	if err != nil {
		return serviceError(l, "create_book", err)
	}
	l.Info("create_book_success", "book_id", book.ID)
	return c.JSON(http.StatusCreated, book)
}

func (h *CatalogHTTP) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_book")

	id, err := paramID(c, l, "update_book", "id")
	if err != nil {
		return err
	}

	var req transport.PatchBookRequest
	if isMultipart(c) {
		form, err := c.FormParams()
		if err != nil {
			l.Warn("update_book_error", "status", 400, "reason", "invalid form", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
		}
		if req, err = patchBookFromForm(form); err != nil {
			l.Warn("update_book_error", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err := c.Validate(&req); err != nil {
			l.Warn("update_book_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
		}
	} else if err := bindValid(c, l, "update_book", &req); err != nil {
		return err
	}

	cover, err := optionalFile(c, "cover")
	if err != nil {
		l.Warn("update_book_error", "status", 400, "reason", "invalid cover upload", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cover upload")
	}

	book, err := h.Svc.UpdateBook(ctx, id, req, cover)
	if err != nil {
		return serviceError(l, "update_book", err)
	}
	l.Info("update_book_success", "book_id", book.ID)
	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHTTP) RetireBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.retire_book")

	id, err := paramID(c, l, "retire_book", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.RetireBook(ctx, id); err != nil {
		return serviceError(l, "retire_book", err)
	}
	l.Info("retire_book_success", "book_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "book retired"})
}

func (h *CatalogHTTP) Reindex(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.reindex")

	n, err := h.Svc.Reindex(ctx)
	if err != nil {
		return serviceError(l, "reindex", err)
	}
	l.Info("reindex_success", "books", n)
	return c.JSON(http.StatusOK, echo.Map{"indexed": n})
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CategoryRequest
	if err := bindValid(c, l, "create_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return serviceError(l, "create_category", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_category")

	id, err := paramID(c, l, "update_category", "id")
	if err != nil {
		return err
	}
	var req transport.CategoryRequest
	if err := bindValid(c, l, "update_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return serviceError(l, "update_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := paramID(c, l, "delete_category", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return serviceError(l, "delete_category", err)
	}
	return c.NoContent(http.StatusNoContent)
}
