package domain

import (
	"errors"
	"testing"

	events "eventDeskProxy/internal/modules/events/domain"
)

func TestSession_SignInSignOut(t *testing.T) {
	s := NewSession()
	if _, ok := s.Credential(); ok || s.State() != StateAnonymous {
		t.Fatal("new session must be anonymous")
	}

	s.SignIn(events.Credential{User: " desk ", Password: "pw", Database: " prod "})
	cred, ok := s.Credential()
	if !ok || cred.User != "desk" || cred.Database != "prod" || cred.Password != "pw" {
		t.Fatalf("unexpected credential: %+v %v", cred, ok)
	}

	s.SignOut(ReasonLoginFailed)
	if cred, ok := s.Credential(); ok || cred != (events.Credential{}) {
		t.Fatalf("credential must be cleared, got %+v", cred)
	}
	if reason := s.TakeReason(); reason != ReasonLoginFailed {
		t.Fatalf("unexpected reason %q", reason)
	}
	if reason := s.TakeReason(); reason != "" {
		t.Fatalf("reason must be consumed once, got %q", reason)
	}
}

func TestForm_Validate(t *testing.T) {
	complete := events.Attendee{Name: "Ada", Email: "ada@example.com"}
	cases := []struct {
		name    string
		form    Form
		message string
	}{
		{name: "no event", form: Form{Quantity: 1, Attendees: []events.Attendee{complete}}, message: "Please choose an event"},
		{name: "zero quantity", form: Form{EventID: 1}, message: "Ticket quantity must be at least 1"},
		{name: "mismatch", form: Form{EventID: 1, Quantity: 2, Attendees: []events.Attendee{complete}}, message: "Attendees count must match quantity"},
		{name: "missing name", form: Form{EventID: 1, Quantity: 2, Attendees: []events.Attendee{complete, {Email: "x@y"}}}, message: "Ticket #2: Name is required"},
		{name: "blank email", form: Form{EventID: 1, Quantity: 1, Attendees: []events.Attendee{{Name: "Ada", Email: "  "}}}, message: "Ticket #1: Email is required"},
		{name: "valid", form: Form{EventID: 1, Quantity: 1, Attendees: []events.Attendee{complete}}},
	}
	for _, tc := range cases {
		err := tc.form.Validate()
		if tc.message == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.message {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.message, err)
		}
	}

	var attendeeErr *AttendeeError
	err := (&Form{EventID: 1, Quantity: 1, Attendees: []events.Attendee{{}}}).Validate()
	if !errors.As(err, &attendeeErr) || attendeeErr.Index != 1 || attendeeErr.Field != "Name" {
		t.Fatalf("expected AttendeeError, got %v", err)
	}
}

func TestForm_ResizeKeepsAttendees(t *testing.T) {
	form := NewForm(3, 0)
	form.Attendees[0] = events.Attendee{Name: "Ada"}

	form.Resize(3)
	if len(form.Attendees) != 3 || form.Attendees[0].Name != "Ada" {
		t.Fatalf("unexpected attendees after grow: %+v", form.Attendees)
	}
	form.Resize(1)
	if len(form.Attendees) != 1 || form.Quantity != 1 {
		t.Fatalf("unexpected attendees after shrink: %+v", form.Attendees)
	}
	form.Resize(0)
	if !errors.Is(form.Validate(), ErrQuantity) {
		t.Fatalf("expected quantity error, got %v", form.Validate())
	}
}

func TestForm_QuantityIsCapped(t *testing.T) {
	form := NewForm(3, 0)

	form.Resize(1 << 40)
	if len(form.Attendees) != MaxQuantity {
		t.Fatalf("expected %d attendee slots, got %d", MaxQuantity, len(form.Attendees))
	}
	if !errors.Is(form.Validate(), ErrQuantityLimit) {
		t.Fatalf("expected quantity limit error, got %v", form.Validate())
	}

	form.Resize(MaxQuantity)
	for i := range form.Attendees {
		form.Attendees[i] = events.Attendee{Name: "Ada", Email: "ada@example.com"}
	}
	if err := form.Validate(); err != nil {
		t.Fatalf("unexpected error at the limit: %v", err)
	}
}

func TestForm_Payload(t *testing.T) {
	form := &Form{EventID: 3, Quantity: 1, Attendees: []events.Attendee{{Name: " Ada ", Email: "ada@example.com"}}}

	payload := form.Payload(events.Credential{User: "desk", Password: "pw"})
	if payload["event_id"] != int64(3) || payload["tickets_qty"] != 1 {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ticket_id"]; ok {
		t.Fatal("ticket_id must be omitted when not chosen")
	}
	if _, ok := payload["odoo_db"]; ok {
		t.Fatal("odoo_db must be omitted when empty")
	}
	if payload["odoo_user"] != "desk" || payload["odoo_pass"] != "pw" {
		t.Fatalf("credential fields missing: %v", payload)
	}
	if attendees := payload["attendees"].([]events.Attendee); attendees[0].Name != "Ada" {
		t.Fatalf("attendee not normalized: %+v", attendees)
	}

	form.TicketID = 8
	payload = form.Payload(events.Credential{User: "desk", Password: "pw", Database: "prod"})
	if payload["ticket_id"] != int64(8) || payload["odoo_db"] != "prod" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestFriendlyError(t *testing.T) {
	cases := map[string]string{
		"":                                        "Unknown error",
		"Registration failed: not enough seats available for Standard": "No seats left",
		"Odoo login failed":                       "Odoo login failed",
	}
	for input, expected := range cases {
		if got := FriendlyError(input); got != expected {
			t.Fatalf("FriendlyError(%q) = %q, expected %q", input, got, expected)
		}
	}
	if !IsLoginFailure("Odoo Login Failed. Check DB/USER/PASS.") || IsLoginFailure("No seats left") {
		t.Fatal("unexpected login failure detection")
	}
}

func TestTicketURL(t *testing.T) {
	cases := []struct {
		name     string
		parsed   map[string]any
		ids      []int64
		expected string
	}{
		{
			name:     "tickets_url gets download flag",
			parsed:   map[string]any{"ok": true, "tickets_url": "/event/3/tickets?ids=11"},
			expected: "http://erp.local/event/3/tickets?ids=11&download=1",
		},
		{
			name:     "tickets_url keeps existing flag",
			parsed:   map[string]any{"result": map[string]any{"tickets_url": "https://erp/t?download=1"}},
			expected: "https://erp/t?download=1",
		},
		{
			name:     "direct key",
			parsed:   map[string]any{"ticket_pdf_url": "https://cdn/ticket.pdf"},
			expected: "https://cdn/ticket.pdf",
		},
		{
			name:     "first ticket",
			parsed:   map[string]any{"tickets": []any{map[string]any{"pdf_url": "/report/pdf/11"}}},
			expected: "http://erp.local/report/pdf/11",
		},
		{
			name:     "nested result one level",
			parsed:   map[string]any{"jsonrpc": "2.0", "result": map[string]any{"ok": true, "download_url": "/dl/1"}},
			expected: "http://erp.local/dl/1",
		},
		{
			name:     "deeper nesting ignored",
			parsed:   map[string]any{"result": map[string]any{"result": map[string]any{"result": map[string]any{"url": "/deep"}}}},
			ids:      []int64{41},
			expected: "http://erp.local/my/event-registration/41/ticket",
		},
		{
			name:     "nothing",
			parsed:   map[string]any{"ok": true},
			expected: "",
		},
	}
	for _, tc := range cases {
		got := TicketURL(tc.parsed, Unwrap(tc.parsed), tc.ids, "http://erp.local/")
		if got != tc.expected {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.expected, got)
		}
	}
}

func TestRegistrationIDs(t *testing.T) {
	ids := RegistrationIDs(map[string]any{"registration_ids": []any{float64(11), "12", false, float64(0)}})
	if len(ids) != 2 || ids[0] != 11 || ids[1] != 12 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
