package api

import (
	"time"

	"codeberg.org/mutker/powergym/internal/logger"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request. Server errors log at error,
// client errors at warn, everything else at debug.
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			var event *logger.LogEvent
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			default:
				event = log.Debug()
			}

			event.
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(started)).
				Str("remote", c.RealIP()).
				Msg("Request")

			return nil
		}
	}
}
