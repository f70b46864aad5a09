package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventDeskProxy/internal/modules/events/application/port"
	"eventDeskProxy/internal/modules/events/domain"
	"eventDeskProxy/internal/shared/normalization"
)

// RegisterPath is the custom Odoo route that creates registrations.
const RegisterPath = "/api/event/register"

// ProxyUseCase implements the forwarding operations. Every operation logs in
// from scratch; a uid never outlives the call that obtained it.
type ProxyUseCase struct {
	gateway   port.OdooGateway
	publisher port.RegistrationPublisher
	now       func() time.Time
	newID     func() string

	announcing sync.WaitGroup
}

// NewProxyUseCase wires the gateway and an optional publisher.
func NewProxyUseCase(gateway port.OdooGateway, publisher port.RegistrationPublisher) *ProxyUseCase {
	if publisher == nil {
		publisher = port.NopRegistrationPublisher{}
	}
	return &ProxyUseCase{
		gateway:   gateway,
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Login checks a caller-supplied credential and returns the remote uid.
// Missing user or password fails before any remote call.
func (uc *ProxyUseCase) Login(ctx context.Context, cred domain.Credential) (int64, error) {
	if !cred.Complete() {
		return 0, port.ErrMissingCredentials
	}
	return uc.authenticate(ctx, cred)
}

// Probe logs in with whatever credential was resolved, complete or not.
func (uc *ProxyUseCase) Probe(ctx context.Context, cred domain.Credential) (int64, error) {
	uid, err := uc.gateway.Login(ctx, cred.Database, cred.User, cred.Password)
	if err != nil {
		return 0, err
	}
	if uid <= 0 {
		return 0, port.ErrLoginRejected
	}
	return uid, nil
}

// ListEvents returns published, active events ordered by start date.
func (uc *ProxyUseCase) ListEvents(ctx context.Context, cred domain.Credential) ([]domain.EventSummary, error) {
	uid, err := uc.authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}

	result, err := uc.gateway.ExecuteKw(ctx, domain.ExecuteRequest{
		Database: cred.Database,
		UID:      uid,
		Password: cred.Password,
		Model:    domain.EventModel,
		Method:   "search_read",
		Args: []any{domain.Domain{
			domain.Condition("website_published", "=", true),
			domain.Condition("active", "=", true),
		}},
		Kwargs: map[string]any{
			"fields": domain.EventFields,
			"order":  "date_begin asc",
		},
	})
	if err != nil {
		return nil, err
	}

	events := make([]domain.EventSummary, 0)
	if err := decodeRecords(result, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// ListTickets returns the ticket types of one event ordered by sequence.
func (uc *ProxyUseCase) ListTickets(ctx context.Context, cred domain.Credential, eventID int64) ([]domain.TicketType, error) {
	if eventID <= 0 {
		return nil, port.ErrInvalidEventID
	}
	uid, err := uc.authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}

	result, err := uc.gateway.ExecuteKw(ctx, domain.ExecuteRequest{
		Database: cred.Database,
		UID:      uid,
		Password: cred.Password,
		Model:    domain.TicketModel,
		Method:   "search_read",
		Args: []any{
			domain.Domain{domain.Condition("event_id", "=", eventID)},
			domain.TicketFields,
		},
		Kwargs: map[string]any{
			"order": "sequence asc",
			"limit": domain.MaxTicketResults,
		},
	})
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.TicketType, 0)
	if err := decodeRecords(result, &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	return tickets, nil
}

// Register validates the payload, logs in, and forwards the payload plus the
// resolved credential to Odoo's registration route. The remote answer is
// returned untouched so the caller can relay it with its remote status.
func (uc *ProxyUseCase) Register(ctx context.Context, cred domain.Credential, payload map[string]any) (*port.ForwardResponse, error) {
	request := domain.ParseRegistration(payload)
	if !request.Valid() {
		return nil, port.ErrInvalidPayload
	}
	if _, err := uc.authenticate(ctx, cred); err != nil {
		return nil, err
	}

	params := make(map[string]any, len(payload)+3)
	for key, value := range payload {
		params[key] = value
	}
	params[domain.ParamUser] = cred.User
	params[domain.ParamPassword] = cred.Password
	if cred.Database != "" {
		params[domain.ParamDatabase] = cred.Database
	} else {
		delete(params, domain.ParamDatabase)
	}

	res, err := uc.gateway.Forward(ctx, RegisterPath, params)
	if err != nil {
		return nil, err
	}

	if res.Status >= http.StatusOK && res.Status < http.StatusMultipleChoices {
		uc.announce(ctx, request, res.Status)
	}
	return res, nil
}

// Fields lists the field names of model using only the configured credential.
func (uc *ProxyUseCase) Fields(ctx context.Context, defaults domain.Credential, model string) ([]string, error) {
	model = normalization.NormalizeModel(model)
	if model == "" {
		model = domain.TicketModel
	}
	uid, err := uc.Probe(ctx, defaults)
	if err != nil {
		return nil, err
	}

	result, err := uc.gateway.ExecuteKw(ctx, domain.ExecuteRequest{
		Database: defaults.Database,
		UID:      uid,
		Password: defaults.Password,
		Model:    model,
		Method:   "fields_get",
		Kwargs:   map[string]any{"attributes": []string{"string", "type"}},
	})
	if err != nil {
		return nil, err
	}

	fields, err := normalization.ObjectKeys(result)
	if err != nil {
		return nil, fmt.Errorf("decode fields of %s: %w", model, err)
	}
	return fields, nil
}

// ParseEventID accepts positive integral identifiers that fit an int64 and
// rejects everything else. "7.0" reads as 7.
func ParseEventID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if id <= 0 {
			return 0, port.ErrInvalidEventID
		}
		return id, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 || value >= math.MaxInt64 || value != math.Trunc(value) {
		return 0, port.ErrInvalidEventID
	}
	return int64(value), nil
}

// Wait blocks until every pending registration announcement has finished.
func (uc *ProxyUseCase) Wait() {
	uc.announcing.Wait()
}

// authenticate requires a complete credential; an incomplete one is reported
// as a rejected login without contacting Odoo.
func (uc *ProxyUseCase) authenticate(ctx context.Context, cred domain.Credential) (int64, error) {
	if !cred.Complete() {
		return 0, fmt.Errorf("%w: %w", port.ErrLoginRejected, port.ErrMissingCredentials)
	}
	return uc.Probe(ctx, cred)
}

// announce publishes in the background so the remote answer is relayed
// without waiting on the broker.
func (uc *ProxyUseCase) announce(ctx context.Context, request domain.RegistrationRequest, status int) {
	event := domain.RegistrationEvent{
		ID:            uc.newID(),
		EventID:       request.EventID,
		TicketID:      request.TicketID,
		AttendeeCount: len(request.Attendees),
		Status:        status,
		OccurredAt:    uc.now().UTC(),
	}
	ctx = context.WithoutCancel(ctx)

	uc.announcing.Add(1)
	go func() {
		defer uc.announcing.Done()
		if err := uc.publisher.PublishRegistration(ctx, event); err != nil {
			slog.Warn("registration publish failed", slog.String("id", event.ID), slog.Int64("eventId", event.EventID), slog.Any("error", err))
		}
	}()
}

// decodeRecords decodes a search_read result; a missing or false result is an empty list.
func decodeRecords(result json.RawMessage, target any) error {
	value, err := normalization.DecodeRaw(result)
	if err != nil {
		return err
	}
	if !normalization.IsTruthy(value) {
		return nil
	}
	if _, ok := value.([]any); !ok {
		return errors.New("search_read result is not a list")
	}
	return json.Unmarshal(result, target)
}
