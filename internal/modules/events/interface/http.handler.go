package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"eventDeskProxy/internal/modules/events/application/port"
	"eventDeskProxy/internal/modules/events/application/usecase"
	"eventDeskProxy/internal/shared/httputil"
)

var (
	loginMapper = httputil.NewErrorMapper().
		WithMapping(port.ErrMissingCredentials, http.StatusBadRequest, "Missing user or pass").
		WithMapping(port.ErrLoginRejected, http.StatusUnauthorized, "Odoo login failed")

	probeMapper = httputil.NewErrorMapper().
		WithMapping(port.ErrLoginRejected, http.StatusUnauthorized, "Login failed (uid is null/0)")

	eventsMapper = httputil.NewErrorMapper().
		WithMapping(port.ErrLoginRejected, http.StatusUnauthorized, "Odoo login failed")

	// Ticket listing answers 200 for everything but a rejected login.
	ticketsMapper = httputil.NewErrorMapper().
		WithDefaultStatus(http.StatusOK).
		WithMapping(port.ErrInvalidEventID, http.StatusOK, "Invalid event id").
		WithMapping(port.ErrLoginRejected, http.StatusUnauthorized, "Odoo login failed")

	registerMapper = httputil.NewErrorMapper().
		WithMapping(port.ErrInvalidPayload, http.StatusBadRequest, "Invalid payload").
		WithMapping(port.ErrLoginRejected, http.StatusUnauthorized, "Odoo login failed. Check DB/USER/PASS.").
		WithMapping(port.ErrUpstreamNonJSON, http.StatusBadGateway, "")

	fieldsMapper = httputil.NewErrorMapper()
)

// NewHealthHandler answers liveness checks without touching Odoo.
func NewHealthHandler() func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "msg": "backend is running"})
	}
}

// NewDebugOdooHandler logs in with header credentials, falling back to the defaults.
func NewDebugOdooHandler(uc *usecase.ProxyUseCase, resolver *usecase.AuthResolver) func(echo.Context) error {
	return func(c echo.Context) error {
		cred := resolver.Resolve(c.Request().Header, nil)
		uid, err := uc.Probe(c.Request().Context(), cred)
		if err != nil {
			return fail(c, probeMapper, "debug odoo", err)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "uid": uid})
	}
}

// NewTicketFieldsHandler lists the fields of ?model= using the configured credential only.
func NewTicketFieldsHandler(uc *usecase.ProxyUseCase, resolver *usecase.AuthResolver) func(echo.Context) error {
	return func(c echo.Context) error {
		fields, err := uc.Fields(c.Request().Context(), resolver.Defaults(), c.QueryParam("model"))
		if err != nil {
			return fail(c, fieldsMapper, "ticket fields", err)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "fields": fields})
	}
}

// NewLoginHandler verifies a caller credential. User and password never fall
// back to the configured defaults here.
func NewLoginHandler(uc *usecase.ProxyUseCase, resolver *usecase.AuthResolver) func(echo.Context) error {
	return func(c echo.Context) error {
		body, err := readJSONBody(c)
		if err != nil {
			return err
		}
		cred := resolver.ResolveExplicit(c.Request().Header, body)

		uid, err := uc.Login(c.Request().Context(), cred)
		if err != nil {
			return fail(c, loginMapper, "login", err)
		}
		slog.Info("odoo login accepted", slog.String("credential", cred.String()), slog.Int64("uid", uid))
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "uid": uid})
	}
}

// NewEventsHandler lists published events.
func NewEventsHandler(uc *usecase.ProxyUseCase, resolver *usecase.AuthResolver) func(echo.Context) error {
	return func(c echo.Context) error {
		cred := resolver.Resolve(c.Request().Header, nil)
		events, err := uc.ListEvents(c.Request().Context(), cred)
		if err != nil {
			return fail(c, eventsMapper, "list events", err)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "events": events})
	}
}

// NewTicketsHandler lists the ticket types of /api/events/:id/tickets.
func NewTicketsHandler(uc *usecase.ProxyUseCase, resolver *usecase.AuthResolver) func(echo.Context) error {
	return func(c echo.Context) error {
		eventID, err := usecase.ParseEventID(c.Param("id"))
		if err != nil {
			return fail(c, ticketsMapper, "list tickets", err)
		}

		cred := resolver.Resolve(c.Request().Header, nil)
		tickets, err := uc.ListTickets(c.Request().Context(), cred, eventID)
		if err != nil {
			return fail(c, ticketsMapper, "list tickets", err)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "tickets": tickets})
	}
}

// NewRegisterHandler forwards a registration and relays Odoo's answer with its status.
func NewRegisterHandler(uc *usecase.ProxyUseCase, resolver *usecase.AuthResolver) func(echo.Context) error {
	return func(c echo.Context) error {
		body, err := readJSONBody(c)
		if err != nil {
			return err
		}
		cred := resolver.Resolve(c.Request().Header, body)

		res, err := uc.Register(c.Request().Context(), cred, body)
		if err != nil {
			return fail(c, registerMapper, "register", err)
		}
		slog.Info("registration forwarded", slog.String("credential", cred.String()), slog.Int("status", res.Status))
		return c.JSONBlob(res.Status, res.Body)
	}
}

// fail logs at the handler boundary and writes the mapped failure envelope.
func fail(c echo.Context, mapper *httputil.ErrorMapper, op string, err error) error {
	info := mapper.Map(err)
	attrs := []any{
		slog.String("op", op),
		slog.Int("status", info.Status),
		slog.String("requestId", c.Response().Header().Get(echo.HeaderXRequestID)),
		slog.Any("error", err),
	}
	if info.Status >= http.StatusInternalServerError {
		slog.Error("proxy request failed", attrs...)
	} else {
		slog.Warn("proxy request rejected", attrs...)
	}
	return httputil.WriteError(c, info.Status, info.Message)
}
