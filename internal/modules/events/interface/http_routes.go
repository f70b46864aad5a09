package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"eventDeskProxy/internal/modules/events/application/usecase"
	"eventDeskProxy/internal/shared/httputil"
)

// RouteConfig carries what the proxy routes need from the server setup.
type RouteConfig struct {
	UseCase        *usecase.ProxyUseCase
	Resolver       *usecase.AuthResolver
	AllowedOrigins []string
}

// Mount installs the CORS pre-middleware, the body limit, the envelope error
// handler and every proxy route on e.
func Mount(e *echo.Echo, cfg RouteConfig) {
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Pre(NewCORSMiddleware(cfg.AllowedOrigins))
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/health", NewHealthHandler())
	e.GET("/debug/odoo", NewDebugOdooHandler(cfg.UseCase, cfg.Resolver))
	e.GET("/debug/ticket-fields", NewTicketFieldsHandler(cfg.UseCase, cfg.Resolver))

	api := e.Group("/api")
	api.POST("/login", NewLoginHandler(cfg.UseCase, cfg.Resolver))
	api.GET("/events", NewEventsHandler(cfg.UseCase, cfg.Resolver))
	api.GET("/events/:id/tickets", NewTicketsHandler(cfg.UseCase, cfg.Resolver))
	api.POST("/event/register", NewRegisterHandler(cfg.UseCase, cfg.Resolver))
}

// HTTPErrorHandler renders router and middleware errors with the same
// {"ok":false,"error":...} envelope the handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch status {
		case http.StatusMethodNotAllowed:
			message = "Method not allowed"
		case http.StatusNotFound:
			message = "Not Found"
		default:
			message = fmt.Sprint(he.Message)
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("unhandled request error", slog.String("path", c.Request().URL.Path), slog.Any("error", err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = httputil.WriteError(c, status, message)
	}
	if writeErr != nil {
		slog.Error("write error response", slog.Any("error", writeErr))
	}
}
