package domain

import (
	"errors"
	"fmt"
	"strings"

	events "eventDeskProxy/internal/modules/events/domain"
)

// MaxQuantity caps the tickets taken in one registration.
const MaxQuantity = 10

var (
	ErrNoEvent          = errors.New("Please choose an event")
	ErrQuantity         = errors.New("Ticket quantity must be at least 1")
	ErrQuantityLimit    = fmt.Errorf("Ticket quantity must be at most %d", MaxQuantity)
	ErrAttendeeMismatch = errors.New("Attendees count must match quantity")
)

// AttendeeError points at the first incomplete attendee, numbered from 1.
type AttendeeError struct {
	Index int
	Field string
}

func (e *AttendeeError) Error() string {
	return fmt.Sprintf("Ticket #%d: %s is required", e.Index, e.Field)
}

// Form is the registration being prepared at the desk.
type Form struct {
	EventID   int64
	TicketID  int64
	Quantity  int
	Attendees []events.Attendee
}

// NewForm starts a form for one attendee.
func NewForm(eventID, ticketID int64) *Form {
	return &Form{EventID: eventID, TicketID: ticketID, Quantity: 1, Attendees: make([]events.Attendee, 1)}
}

// Resize changes the quantity, keeping already captured attendees. The
// attendee list never grows past MaxQuantity.
func (f *Form) Resize(quantity int) {
	f.Quantity = quantity
	quantity = min(max(quantity, 0), MaxQuantity)
	switch {
	case quantity > len(f.Attendees):
		f.Attendees = append(f.Attendees, make([]events.Attendee, quantity-len(f.Attendees))...)
	case quantity < len(f.Attendees):
		f.Attendees = f.Attendees[:quantity]
	}
}

// Validate reports the first problem in display order.
func (f *Form) Validate() error {
	if f.EventID <= 0 {
		return ErrNoEvent
	}
	if f.Quantity < 1 {
		return ErrQuantity
	}
	if f.Quantity > MaxQuantity {
		return ErrQuantityLimit
	}
	if len(f.Attendees) != f.Quantity {
		return ErrAttendeeMismatch
	}
	for i, a := range f.Attendees {
		if strings.TrimSpace(a.Name) == "" {
			return &AttendeeError{Index: i + 1, Field: "Name"}
		}
		if strings.TrimSpace(a.Email) == "" {
			return &AttendeeError{Index: i + 1, Field: "Email"}
		}
	}
	return nil
}

// Payload builds the registration body. The credential is repeated as body
// fields; the database only when set.
func (f *Form) Payload(cred events.Credential) map[string]any {
	attendees := make([]events.Attendee, len(f.Attendees))
	for i, a := range f.Attendees {
		attendees[i] = events.NormalizeAttendee(a)
	}
	payload := map[string]any{
		"event_id":           f.EventID,
		"tickets_qty":        f.Quantity,
		"attendees":          attendees,
		events.ParamUser:     cred.User,
		events.ParamPassword: cred.Password,
	}
	if f.TicketID > 0 {
		payload["ticket_id"] = f.TicketID
	}
	if cred.Database != "" {
		payload[events.ParamDatabase] = cred.Database
	}
	return payload
}
