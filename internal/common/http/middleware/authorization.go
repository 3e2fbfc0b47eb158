package middleware

import (
	"fmt"
	nethttp "net/http"

	"github.com/labstack/echo/v4"

	"github.com/jbmohler/lmsmono/internal/common/http"
)

func (m *AppMiddleware) InternalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secretKey := c.Request().Header.Get("X-Secret-Key")
		if secretKey == "" {
			return http.RestErrorResponse(c, nethttp.StatusUnauthorized, fmt.Errorf("required secret key"))
		}

		if secretKey != m.conf.SecretKey {
			return http.RestErrorResponse(c, nethttp.StatusUnauthorized, fmt.Errorf("invalid secret key"))
		}

		return next(c)
	}
}
