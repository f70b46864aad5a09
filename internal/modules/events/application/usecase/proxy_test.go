package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"eventDeskProxy/internal/modules/events/application/port"
	"eventDeskProxy/internal/modules/events/domain"
)

type fakeGateway struct {
	uid        int64
	loginErr   error
	result     json.RawMessage
	executeErr error
	forward    *port.ForwardResponse
	forwardErr error

	logins   []domain.Credential
	executes []domain.ExecuteRequest
	forwards []map[string]any
}

func (f *fakeGateway) Login(_ context.Context, database, user, password string) (int64, error) {
	f.logins = append(f.logins, domain.Credential{User: user, Password: password, Database: database})
	return f.uid, f.loginErr
}

func (f *fakeGateway) ExecuteKw(_ context.Context, req domain.ExecuteRequest) (json.RawMessage, error) {
	f.executes = append(f.executes, req)
	return f.result, f.executeErr
}

func (f *fakeGateway) Forward(_ context.Context, path string, params map[string]any) (*port.ForwardResponse, error) {
	if path != RegisterPath {
		return nil, errors.New("unexpected path " + path)
	}
	f.forwards = append(f.forwards, params)
	return f.forward, f.forwardErr
}

type recordingPublisher struct {
	events []domain.RegistrationEvent
	err    error
}

func (p *recordingPublisher) PublishRegistration(_ context.Context, event domain.RegistrationEvent) error {
	p.events = append(p.events, event)
	return p.err
}

var validCred = domain.Credential{User: "admin", Password: "secret", Database: "odoo"}

func TestProxyUseCase_LoginRequiresCredentialBeforeRemoteCall(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 7}
	uc := NewProxyUseCase(gateway, nil)

	for _, cred := range []domain.Credential{{}, {User: "admin"}, {Password: "secret"}} {
		_, err := uc.Login(context.Background(), cred)
		if !errors.Is(err, port.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials for %+v, got %v", cred, err)
		}
	}
	if len(gateway.logins) != 0 {
		t.Fatalf("expected no remote login, got %d", len(gateway.logins))
	}
}

func TestProxyUseCase_LoginRejected(t *testing.T) {
	t.Parallel()

	uc := NewProxyUseCase(&fakeGateway{uid: 0}, nil)
	if _, err := uc.Login(context.Background(), validCred); !errors.Is(err, port.ErrLoginRejected) {
		t.Fatalf("expected ErrLoginRejected, got %v", err)
	}
}

func TestProxyUseCase_LoginSuccess(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 7}
	uid, err := NewProxyUseCase(gateway, nil).Login(context.Background(), validCred)
	if err != nil || uid != 7 {
		t.Fatalf("expected uid 7, got %d %v", uid, err)
	}
	if gateway.logins[0] != validCred {
		t.Fatalf("credential not forwarded unchanged: %+v", gateway.logins[0])
	}
}

func TestProxyUseCase_ListEventsPreservesOrderAndReauthenticates(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		uid:    9,
		result: json.RawMessage(`[{"id":5,"name":"B"},{"id":2,"name":"A"},{"id":8,"name":"C","date_end":false}]`),
	}
	uc := NewProxyUseCase(gateway, nil)

	for i := 0; i < 2; i++ {
		events, err := uc.ListEvents(context.Background(), validCred)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids := []int64{events[0].ID, events[1].ID, events[2].ID}
		if !reflect.DeepEqual(ids, []int64{5, 2, 8}) {
			t.Fatalf("order changed: %v", ids)
		}
	}
	if len(gateway.logins) != 2 || len(gateway.executes) != 2 {
		t.Fatalf("expected two independent round trips, got %d logins %d executes", len(gateway.logins), len(gateway.executes))
	}

	req := gateway.executes[0]
	if req.UID != 9 || req.Model != "event.event" || req.Method != "search_read" || req.Password != "secret" || req.Database != "odoo" {
		t.Fatalf("unexpected execute request: %+v", req)
	}
	expectedDomain := domain.Domain{{"website_published", "=", true}, {"active", "=", true}}
	if !reflect.DeepEqual(req.Args, []any{expectedDomain}) {
		t.Fatalf("unexpected domain: %#v", req.Args)
	}
	if req.Kwargs["order"] != "date_begin asc" {
		t.Fatalf("unexpected order: %v", req.Kwargs["order"])
	}
}

func TestProxyUseCase_ListEventsMissingResult(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "null", "false"} {
		uc := NewProxyUseCase(&fakeGateway{uid: 1, result: json.RawMessage(raw)}, nil)
		events, err := uc.ListEvents(context.Background(), validCred)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if events == nil || len(events) != 0 {
			t.Fatalf("%q: expected empty non-nil list, got %#v", raw, events)
		}
	}
}

func TestProxyUseCase_ListEventsIncompleteCredential(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 1}
	_, err := NewProxyUseCase(gateway, nil).ListEvents(context.Background(), domain.Credential{User: "admin"})
	if !errors.Is(err, port.ErrLoginRejected) || !errors.Is(err, port.ErrMissingCredentials) {
		t.Fatalf("expected rejected login with missing credentials, got %v", err)
	}
	if len(gateway.logins) != 0 {
		t.Fatal("incomplete credential must not reach Odoo")
	}
}

func TestProxyUseCase_ListTickets(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 4, result: json.RawMessage(`[{"id":1,"name":"Standard","description":false,"seats_available":10,"sequence":1}]`)}
	tickets, err := NewProxyUseCase(gateway, nil).ListTickets(context.Background(), validCred, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 1 || tickets[0].Name != "Standard" || tickets[0].SeatsAvailable.Value != 10 {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}

	req := gateway.executes[0]
	if req.Model != "event.event.ticket" {
		t.Fatalf("unexpected model: %s", req.Model)
	}
	expectedArgs := []any{domain.Domain{{"event_id", "=", int64(3)}}, domain.TicketFields}
	if !reflect.DeepEqual(req.Args, expectedArgs) {
		t.Fatalf("unexpected args: %#v", req.Args)
	}
	if req.Kwargs["limit"] != 200 || req.Kwargs["order"] != "sequence asc" {
		t.Fatalf("unexpected kwargs: %v", req.Kwargs)
	}
}

func TestProxyUseCase_ListTicketsInvalidID(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 4}
	if _, err := NewProxyUseCase(gateway, nil).ListTickets(context.Background(), validCred, 0); !errors.Is(err, port.ErrInvalidEventID) {
		t.Fatalf("expected ErrInvalidEventID, got %v", err)
	}
	if len(gateway.logins) != 0 {
		t.Fatal("invalid id must not reach Odoo")
	}
}

func TestProxyUseCase_RegisterForwardsPayloadWithCredential(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 3, forward: &port.ForwardResponse{Status: 200, Body: json.RawMessage(`{"ok":true}`)}}
	publisher := &recordingPublisher{}
	uc := NewProxyUseCase(gateway, publisher)
	uc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	uc.newID = func() string { return "evt-1" }

	payload := map[string]any{
		"event_id":    float64(3),
		"ticket_id":   float64(9),
		"tickets_qty": float64(1),
		"attendees":   []any{map[string]any{"name": "Ada", "email": "ada@example.com", "phone": ""}},
		"odoo_pass":   "client-sent",
	}
	res, err := uc.Register(context.Background(), validCred, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 200 || string(res.Body) != `{"ok":true}` {
		t.Fatalf("unexpected response: %+v", res)
	}

	params := gateway.forwards[0]
	if params["odoo_user"] != "admin" || params["odoo_pass"] != "secret" || params["odoo_db"] != "odoo" {
		t.Fatalf("resolved credential not attached: %v", params)
	}
	if params["tickets_qty"] != float64(1) || params["event_id"] != float64(3) {
		t.Fatalf("caller payload not forwarded: %v", params)
	}
	if payload["odoo_pass"] != "client-sent" {
		t.Fatal("caller payload must not be mutated")
	}

	uc.Wait()
	if len(publisher.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.events))
	}
	expected := domain.RegistrationEvent{ID: "evt-1", EventID: 3, TicketID: 9, AttendeeCount: 1, Status: 200, OccurredAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	if publisher.events[0] != expected {
		t.Fatalf("unexpected event: %+v", publisher.events[0])
	}
}

func TestProxyUseCase_RegisterOmitsEmptyDatabase(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 3, forward: &port.ForwardResponse{Status: 400, Body: json.RawMessage(`{"ok":false}`)}}
	publisher := &recordingPublisher{}
	payload := map[string]any{"event_id": float64(1), "attendees": []any{map[string]any{"name": "A", "email": "a@x"}}, "odoo_db": "stale"}

	uc := NewProxyUseCase(gateway, publisher)
	res, err := uc.Register(context.Background(), domain.Credential{User: "u", Password: "p"}, payload)
	uc.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 400 {
		t.Fatalf("expected relayed status 400, got %d", res.Status)
	}
	if _, ok := gateway.forwards[0]["odoo_db"]; ok {
		t.Fatalf("empty database must not be forwarded: %v", gateway.forwards[0])
	}
	if len(publisher.events) != 0 {
		t.Fatal("failed registrations must not be published")
	}
}

func TestProxyUseCase_RegisterValidation(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 3}
	uc := NewProxyUseCase(gateway, nil)
	for _, payload := range []map[string]any{
		{},
		{"event_id": float64(3)},
		{"event_id": float64(0), "attendees": []any{map[string]any{"name": "A"}}},
		{"event_id": float64(3), "attendees": []any{}},
	} {
		if _, err := uc.Register(context.Background(), validCred, payload); !errors.Is(err, port.ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload for %v, got %v", payload, err)
		}
	}
	if len(gateway.logins) != 0 {
		t.Fatal("invalid payloads must not reach Odoo")
	}
}

func TestProxyUseCase_RegisterPublishFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 3, forward: &port.ForwardResponse{Status: 200, Body: json.RawMessage(`{}`)}}
	publisher := &recordingPublisher{err: errors.New("broker down")}
	payload := map[string]any{"event_id": float64(1), "attendees": []any{map[string]any{"name": "A", "email": "a@x"}}}

	uc := NewProxyUseCase(gateway, publisher)
	if _, err := uc.Register(context.Background(), validCred, payload); err != nil {
		t.Fatalf("publish failure must not fail the registration: %v", err)
	}
	uc.Wait()
	if len(publisher.events) != 1 {
		t.Fatalf("expected one publish attempt, got %d", len(publisher.events))
	}
}

type blockingPublisher struct {
	release chan struct{}
	done    chan struct{}
}

func (p *blockingPublisher) PublishRegistration(ctx context.Context, _ domain.RegistrationEvent) error {
	defer close(p.done)
	<-p.release
	return ctx.Err()
}

func TestProxyUseCase_RegisterDoesNotWaitForBroker(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 3, forward: &port.ForwardResponse{Status: 200, Body: json.RawMessage(`{"ok":true}`)}}
	publisher := &blockingPublisher{release: make(chan struct{}), done: make(chan struct{})}
	payload := map[string]any{"event_id": float64(1), "attendees": []any{map[string]any{"name": "A", "email": "a@x"}}}
	uc := NewProxyUseCase(gateway, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan error, 1)
	go func() {
		_, err := uc.Register(ctx, validCred, payload)
		returned <- err
	}()

	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("registration waited on the publisher")
	}

	cancel()
	close(publisher.release)
	uc.Wait()
	select {
	case <-publisher.done:
	default:
		t.Fatal("publisher did not finish before Wait returned")
	}
}

func TestProxyUseCase_FieldsUsesDefaultsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{uid: 2, result: json.RawMessage(`{"name":{"type":"char"},"event_id":{"type":"many2one"},"seats_max":{"type":"integer"}}`)}
	defaults := domain.Credential{User: "svc", Password: "svc-pass", Database: "prod"}

	fields, err := NewProxyUseCase(gateway, nil).Fields(context.Background(), defaults, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fields, []string{"name", "event_id", "seats_max"}) {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if gateway.logins[0] != defaults {
		t.Fatalf("expected default credential, got %+v", gateway.logins[0])
	}
	req := gateway.executes[0]
	if req.Model != "event.event.ticket" || req.Method != "fields_get" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !reflect.DeepEqual(req.Kwargs["attributes"], []string{"string", "type"}) {
		t.Fatalf("unexpected attributes: %v", req.Kwargs["attributes"])
	}
}

func TestParseEventID(t *testing.T) {
	cases := map[string]int64{
		"3":                   3,
		" 42 ":                42,
		"7.0":                 7,
		"9223372036854775807": 9223372036854775807,
	}
	for input, expected := range cases {
		got, err := ParseEventID(input)
		if err != nil || got != expected {
			t.Fatalf("ParseEventID(%q) = %d, %v; expected %d", input, got, err, expected)
		}
	}
	for _, input := range []string{"", "abc", "0", "-1", "2.5", "NaN", "Inf", "1e19", "9223372036854775808", "9.3e18"} {
		if _, err := ParseEventID(input); !errors.Is(err, port.ErrInvalidEventID) {
			t.Fatalf("ParseEventID(%q) expected ErrInvalidEventID, got %v", input, err)
		}
	}
}
