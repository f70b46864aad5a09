package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	desk "eventDeskProxy/internal/modules/desk/domain"
	"eventDeskProxy/internal/modules/events/application/usecase"
	events "eventDeskProxy/internal/modules/events/domain"
	eventsinfra "eventDeskProxy/internal/modules/events/infrastructure"
)

var (
	// ErrNotSignedIn is returned when a command needs a credential and none is stored.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrSignedOut is returned after the proxy rejected the stored credential.
	ErrSignedOut = errors.New(desk.ReasonLoginFailed)
)

// APIError carries a failed proxy answer already rewritten for display.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// ProxyClient talks to the proxy HTTP API on behalf of the desk session.
type ProxyClient struct {
	rest      *eventsinfra.RESTClient
	session   *desk.Session
	erpOrigin string
	logger    *slog.Logger
}

// NewProxyClient targets the proxy at apiURL. erpOrigin prefixes relative ticket links.
func NewProxyClient(apiURL, erpOrigin string, timeout time.Duration, session *desk.Session) *ProxyClient {
	if session == nil {
		session = desk.NewSession()
	}
	return &ProxyClient{
		rest:      eventsinfra.NewRESTClient(apiURL, timeout, nil),
		session:   session,
		erpOrigin: erpOrigin,
		logger:    slog.Default(),
	}
}

// WithLogger routes the client's own log lines to logger.
func (c *ProxyClient) WithLogger(logger *slog.Logger) *ProxyClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *ProxyClient) Session() *desk.Session {
	return c.session
}

// Login asks the proxy to verify cred and stores it on success.
func (c *ProxyClient) Login(ctx context.Context, cred events.Credential) (int64, error) {
	body := map[string]any{"user": cred.User, "pass": cred.Password}
	if cred.Database != "" {
		body["db"] = cred.Database
	}

	status, parsed, err := c.send(ctx, http.MethodPost, "/api/login", body, events.Credential{})
	if err != nil {
		return 0, err
	}
	if !succeeded(status, parsed) {
		message := errorText(parsed)
		if message == "" {
			message = fmt.Sprintf("Login failed (HTTP %d)", status)
		}
		return 0, &APIError{Status: status, Message: message}
	}

	c.session.SignIn(cred)
	uid, _ := parsed["uid"].(float64)
	return int64(uid), nil
}

// Logout forgets the stored credential.
func (c *ProxyClient) Logout() {
	c.session.SignOut("")
}

// Events lists the events open for registration.
func (c *ProxyClient) Events(ctx context.Context) ([]events.EventSummary, error) {
	var out struct {
		Events []events.EventSummary `json:"events"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/api/events", nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// Tickets lists the ticket types of one event.
func (c *ProxyClient) Tickets(ctx context.Context, eventID int64) ([]events.TicketType, error) {
	var out struct {
		Tickets []events.TicketType `json:"tickets"`
	}
	path := "/api/events/" + strconv.FormatInt(eventID, 10) + "/tickets"
	if err := c.authorized(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Tickets, nil
}

// Register validates form locally and submits it.
func (c *ProxyClient) Register(ctx context.Context, form *desk.Form) (*desk.Receipt, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	cred, ok := c.session.Credential()
	if !ok {
		return nil, ErrNotSignedIn
	}

	status, parsed, err := c.send(ctx, http.MethodPost, "/api/event/register", form.Payload(cred), cred)
	if err != nil {
		return nil, err
	}
	data := desk.Unwrap(parsed)
	if !succeeded(status, data) {
		return nil, c.reject(status, errorText(data))
	}

	ids := desk.RegistrationIDs(data)
	receipt := &desk.Receipt{
		RegistrationIDs: ids,
		TicketURL:       desk.TicketURL(parsed, data, ids, c.erpOrigin),
	}
	c.logger.Info("registration accepted", slog.Int64("eventId", form.EventID), slog.Any("registrationIds", ids))
	return receipt, nil
}

// authorized runs a read call with the stored credential and decodes the
// unwrapped answer into target.
func (c *ProxyClient) authorized(ctx context.Context, method, path string, body any, target any) error {
	cred, ok := c.session.Credential()
	if !ok {
		return ErrNotSignedIn
	}

	status, parsed, err := c.send(ctx, method, path, body, cred)
	if err != nil {
		return err
	}
	data := desk.Unwrap(parsed)
	if !succeeded(status, data) {
		return c.reject(status, errorText(data))
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("re-encode %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// reject signs the session out when the proxy no longer accepts the credential.
func (c *ProxyClient) reject(status int, message string) error {
	message = desk.FriendlyError(message)
	if status == http.StatusUnauthorized || desk.IsLoginFailure(message) {
		c.logger.Warn("desk session signed out", slog.Int("status", status), slog.String("reason", message))
		c.session.SignOut(desk.ReasonLoginFailed)
		return ErrSignedOut
	}
	return &APIError{Status: status, Message: message}
}

func (c *ProxyClient) send(ctx context.Context, method, path string, body any, cred events.Credential) (int, map[string]any, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		payload = encoded
	}

	req, err := c.rest.NewRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setCredentialHeaders(req.Header, cred)

	status, raw, err := c.rest.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("network error: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed == nil {
		return status, nil, &APIError{Status: status, Message: "Backend returned non-JSON: " + truncate(string(raw), 200)}
	}
	return status, parsed, nil
}

// setCredentialHeaders sends the credential as X-Odoo-* headers; the database only when set.
func setCredentialHeaders(header http.Header, cred events.Credential) {
	if cred.User == "" && cred.Password == "" {
		return
	}
	header.Set(usecase.HeaderUser, cred.User)
	header.Set(usecase.HeaderPassword, cred.Password)
	if cred.Database != "" {
		header.Set(usecase.HeaderDatabase, cred.Database)
	}
}

func succeeded(status int, data map[string]any) bool {
	ok, _ := data["ok"].(bool)
	return ok && status >= http.StatusOK && status < http.StatusMultipleChoices
}

func errorText(data map[string]any) string {
	switch value := data["error"].(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	}
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
