package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jbmohler/lmsmono/internal/common/log"
)

// Context copies the echo request id into the request context so every
// log line written downstream carries it.
func (m *AppMiddleware) Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Request().Header.Get(echo.HeaderXRequestID)
			}

			ctx := log.WithFields(c.Request().Context(), zap.String("request_id", requestID))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
