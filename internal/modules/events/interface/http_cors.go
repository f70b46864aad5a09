package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"eventDeskProxy/internal/modules/events/application/usecase"
)

const (
	corsMethods = "GET,POST,OPTIONS"
	corsHeaders = "Content-Type, " + usecase.HeaderUser + ", " + usecase.HeaderPassword + ", " + usecase.HeaderDatabase
)

// NewCORSMiddleware must be installed with Echo.Pre so preflights are answered
// before routing. Allowed origins are echoed back with credentials; any other
// origin gets the wildcard without credentials.
func NewCORSMiddleware(allowedOrigins []string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			if _, ok := allowed[origin]; ok && origin != "" {
				header.Set(echo.HeaderAccessControlAllowOrigin, origin)
				header.Set(echo.HeaderAccessControlAllowCredentials, "true")
				header.Add(echo.HeaderVary, echo.HeaderOrigin)
			} else {
				header.Set(echo.HeaderAccessControlAllowOrigin, "*")
			}
			header.Set(echo.HeaderAccessControlAllowMethods, corsMethods)
			header.Set(echo.HeaderAccessControlAllowHeaders, corsHeaders)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
