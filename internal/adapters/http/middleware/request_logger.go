package middleware

import (
	"time"

	"county-revenue/internal/ports"
	"github.com/labstack/echo/v4"
)

func RequestLogger(logger ports.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			ctx := c.Request().Context()
			args := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route_pattern", c.Path(),
				"status", c.Response().Status,
				"duration", time.Since(started).String(),
			}
			if err != nil {
				logger.Warn(ctx, "http request failed", append(args, "error", err.Error())...)
				return nil
			}
			logger.Info(ctx, "http request", args...)
			return nil
		}
	}
}
