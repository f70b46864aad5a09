package domain

// Remote model names.
const (
	EventModel  = "event.event"
	TicketModel = "event.event.ticket"
)

// MaxTicketResults caps the ticket-type listing per event.
const MaxTicketResults = 200

// EventFields are the event.event columns read for the listing.
var EventFields = []string{"id", "name", "date_begin", "date_end", "seats_max", "seats_available"}

// TicketFields are the event.event.ticket columns read for the listing; id is always returned.
var TicketFields = []string{"name", "description", "seats_available", "sequence"}

// EventSummary is a read-only projection of an event.event record.
type EventSummary struct {
	ID             int64      `json:"id"`
	Name           OdooString `json:"name"`
	Start          OdooString `json:"date_begin"`
	End            OdooString `json:"date_end"`
	SeatsMax       OdooInt    `json:"seats_max"`
	SeatsAvailable OdooInt    `json:"seats_available"`
}

// TicketType is a read-only projection of an event.event.ticket record.
type TicketType struct {
	ID             int64      `json:"id"`
	Name           OdooString `json:"name"`
	Description    OdooString `json:"description"`
	SeatsAvailable OdooInt    `json:"seats_available"`
	Sequence       OdooInt    `json:"sequence"`
}
