// Package loggingmw attaches a request scoped slog logger to every request
// and writes one completion line per request.
package loggingmw

import (
	"log/slog"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bukucerdas/bookstore/pkg/logging"
)

// RequestLogger logs completions of quietPaths (probes, scrapes) at debug.
func RequestLogger(base *slog.Logger, quietPaths ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			l := base.With(
				"method", req.Method,
				"route", route,
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
			}
			ctx := logging.IntoContext(req.Context(), l)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
				l = l.With("error", err.Error())
			}

			status := c.Response().Status
			attrs := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", c.Response().Size,
			}
			if uid, ok := c.Get("user_id").(uint); ok && uid != 0 {
				attrs = append(attrs, "user_id", uid)
			}
			l.Log(ctx, levelFor(status, slices.Contains(quietPaths, route)), "request_completed", attrs...)
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func levelFor(status int, quiet bool) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case quiet:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
