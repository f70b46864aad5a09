package domain

import (
	"fmt"
	"strings"

	"eventDeskProxy/internal/shared/normalization"
)

// DefaultERPOrigin prefixes relative ticket links.
const DefaultERPOrigin = "http://127.0.0.1:8069"

var (
	responseURLKeys = []string{"tickets_url", "ticket_pdf_url", "ticket_url", "ticket_pdf", "download_url", "url"}
	ticketURLKeys   = []string{"pdf_url", "ticket_pdf_url", "ticket_url", "download_url", "url"}
)

// Receipt summarises an accepted registration.
type Receipt struct {
	RegistrationIDs []int64
	TicketURL       string
}

// Unwrap returns the result member of a JSON-RPC style answer, or the answer itself.
func Unwrap(parsed map[string]any) map[string]any {
	if inner, ok := parsed["result"].(map[string]any); ok {
		return inner
	}
	return parsed
}

// RegistrationIDs reads registration_ids, skipping anything not numeric.
func RegistrationIDs(data map[string]any) []int64 {
	items, _ := data["registration_ids"].([]any)
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if id := normalization.AsInt64(item); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// TicketURL picks the download link for a registration answer. parsed is the
// whole body, data its unwrapped form. Falls back to the portal page of the
// first registration.
func TicketURL(parsed, data map[string]any, ids []int64, origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = DefaultERPOrigin
	}

	url := ""
	if ticketsURL := firstString(data, "tickets_url"); ticketsURL != "" {
		url = withDownload(ticketsURL)
	} else if nested, ok := data["result"].(map[string]any); ok && firstString(nested, "tickets_url") != "" {
		url = withDownload(firstString(nested, "tickets_url"))
	} else {
		url = ExtractTicketURL(data)
		if url == "" {
			url = ExtractTicketURL(parsed)
		}
	}

	if url == "" && len(ids) > 0 {
		url = fmt.Sprintf("%s/my/event-registration/%d/ticket", origin, ids[0])
	}
	return normalizeTicketURL(url, origin)
}

// ExtractTicketURL looks at the answer, its first ticket, then the result
// member once. Deeper nesting is not searched.
func ExtractTicketURL(data map[string]any) string {
	if url := extractShallow(data); url != "" {
		return url
	}
	if inner, ok := data["result"].(map[string]any); ok {
		return extractShallow(inner)
	}
	return ""
}

func extractShallow(data map[string]any) string {
	if data == nil {
		return ""
	}
	if url := firstString(data, responseURLKeys...); url != "" {
		return url
	}
	if tickets, ok := data["tickets"].([]any); ok && len(tickets) > 0 {
		if first, ok := tickets[0].(map[string]any); ok {
			return firstString(first, ticketURLKeys...)
		}
	}
	return ""
}

func firstString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := data[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func withDownload(url string) string {
	if strings.Contains(url, "download=1") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&download=1"
	}
	return url + "?download=1"
}

func normalizeTicketURL(url, origin string) string {
	trimmed := strings.TrimSpace(url)
	if strings.HasPrefix(trimmed, "/") {
		return origin + trimmed
	}
	return trimmed
}
