package domain

import (
	"strings"
	"time"

	"eventDeskProxy/internal/shared/normalization"
)

// Attendee is one person registered on a ticket.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RegistrationRequest is the typed view of a registration payload. The raw
// payload is forwarded as received; this view only validates it.
type RegistrationRequest struct {
	EventID    int64      `json:"event_id"`
	TicketID   int64      `json:"ticket_id,omitempty"`
	TicketsQty int        `json:"tickets_qty,omitempty"`
	Attendees  []Attendee `json:"attendees"`
}

// Valid reports whether the request names an event and at least one attendee.
func (r RegistrationRequest) Valid() bool {
	return r.EventID > 0 && len(r.Attendees) > 0
}

// Credential body fields added to the forwarded registration params.
const (
	ParamUser     = "odoo_user"
	ParamPassword = "odoo_pass"
	ParamDatabase = "odoo_db"
)

// RegistrationEvent is published after Odoo accepted a registration forward.
// It never carries credentials or attendee contact details.
type RegistrationEvent struct {
	ID            string    `json:"id"`
	EventID       int64     `json:"event_id"`
	TicketID      int64     `json:"ticket_id,omitempty"`
	AttendeeCount int       `json:"attendee_count"`
	Status        int       `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NormalizeAttendee trims whitespace from every attendee field.
func NormalizeAttendee(a Attendee) Attendee {
	return Attendee{
		Name:  strings.TrimSpace(a.Name),
		Email: strings.TrimSpace(a.Email),
		Phone: strings.TrimSpace(a.Phone),
	}
}

// ParseRegistration builds the typed view from a decoded JSON body. Numeric
// identifiers may arrive as numbers or numeric strings.
func ParseRegistration(payload map[string]any) RegistrationRequest {
	req := RegistrationRequest{
		EventID:    normalization.AsInt64(payload["event_id"]),
		TicketID:   normalization.AsInt64(payload["ticket_id"]),
		TicketsQty: int(normalization.AsInt64(payload["tickets_qty"])),
	}
	items, _ := payload["attendees"].([]any)
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		req.Attendees = append(req.Attendees, NormalizeAttendee(Attendee{
			Name:  normalization.AsString(fields["name"]),
			Email: normalization.AsString(fields["email"]),
			Phone: normalization.AsString(fields["phone"]),
		}))
	}
	return req
}
