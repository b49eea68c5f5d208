package httpserver

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/util"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/validate"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// serviceError logs err under "<op>_error" and turns it into the matching
// HTTP error. Unclassified errors are hidden behind a generic 500.
func serviceError(l *slog.Logger, op string, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		l.Error(op+"_error", "status", code, "reason", "internal error", "error", err)
		return echo.NewHTTPError(code, "internal server error")
	}
	l.Warn(op+"_error", "status", code, "reason", err.Error(), "error", err)
	return echo.NewHTTPError(code, err.Error())
}

// bindValid binds the body into req and runs the struct validator.
func bindValid(c echo.Context, l *slog.Logger, op string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(op+"_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		l.Warn(op+"_error", "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}
	return nil
}

func paramID(c echo.Context, l *slog.Logger, op, name string) (uint, error) {
	id, ok := util.ParseID(c.Param(name))
	if !ok {
		l.Warn(op+"_error", "status", 400, "reason", "invalid id", "param", c.Param(name))
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// optionalFile returns the uploaded file under field, or nil when the request
// is not multipart or carries no such file.
func optionalFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}

// ErrorHandler renders every error as {"error": "<message>"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	l := logging.FromContext(c.Request().Context())

	code := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(code)
		}
	} else {
		l.Error("unhandled_error", "path", c.Path(), "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, map[string]string{"error": msg})
	}
	if werr != nil {
		l.Warn("error_response_failed", "error", werr)
	}
}
