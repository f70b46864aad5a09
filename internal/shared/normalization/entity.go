package normalization

import "strings"

// modelAliases maps shorthand names accepted on the debug surface to Odoo model names.
var modelAliases = map[string]string{
	// Empty/default
	"":        "",
	"-":       "",
	"default": "",

	// Events
	"event":       "event.event",
	"events":      "event.event",
	"event.event": "event.event",

	// Ticket types
	"ticket":             "event.event.ticket",
	"tickets":            "event.event.ticket",
	"event-ticket":       "event.event.ticket",
	"event.event.ticket": "event.event.ticket",

	// Registrations
	"registration":       "event.registration",
	"registrations":      "event.registration",
	"attendee":           "event.registration",
	"attendees":          "event.registration",
	"event.registration": "event.registration",
}

// NormalizeModel converts shorthand model names to their Odoo form.
// Unknown names are returned lowercased and trimmed so any model can be introspected.
//
// Example:
//
//	NormalizeModel("Tickets") => "event.event.ticket"
//	NormalizeModel("res.partner") => "res.partner"
func NormalizeModel(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")

	if canonical, found := modelAliases[normalized]; found {
		return canonical
	}
	if canonical, found := modelAliases[trimmed]; found {
		return canonical
	}
	return trimmed
}
