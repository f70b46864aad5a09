package usecase

import (
	"net/http"
	"strings"

	"eventDeskProxy/internal/modules/events/domain"
)

// Headers carrying a caller-supplied credential.
const (
	HeaderUser     = "X-Odoo-User"
	HeaderPassword = "X-Odoo-Pass"
	HeaderDatabase = "X-Odoo-Db"
)

// Body keys accepted for each credential field, in precedence order.
var (
	bodyUserKeys     = []string{"odoo_user", "user"}
	bodyPasswordKeys = []string{"odoo_pass", "pass"}
	bodyDatabaseKeys = []string{"odoo_db", "db"}
)

// lookup returns a candidate value or "" when the source has none.
type lookup func() string

// firstPresent tries lookups in order and returns the first non-blank value.
func firstPresent(lookups ...lookup) string {
	for _, fn := range lookups {
		if value := fn(); strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// AuthResolver derives the effective credential for a request. Precedence per
// field is header, then body, then the configured default. It never fails:
// unresolved fields stay empty and callers decide what is required.
type AuthResolver struct {
	defaults domain.Credential
}

// NewAuthResolver captures the process-wide default credential.
func NewAuthResolver(defaults domain.Credential) *AuthResolver {
	return &AuthResolver{defaults: defaults}
}

// Defaults returns the configured credential, ignoring anything the caller sent.
func (r *AuthResolver) Defaults() domain.Credential {
	return r.defaults
}

// Resolve applies header > body > default to every field. body may be nil.
func (r *AuthResolver) Resolve(headers http.Header, body map[string]any) domain.Credential {
	return domain.Credential{
		User:     firstPresent(fromHeader(headers, HeaderUser), fromBody(body, bodyUserKeys), constant(r.defaults.User)),
		Password: firstPresent(fromHeader(headers, HeaderPassword), fromBody(body, bodyPasswordKeys), constant(r.defaults.Password)),
		Database: firstPresent(fromHeader(headers, HeaderDatabase), fromBody(body, bodyDatabaseKeys), constant(r.defaults.Database)),
	}
}

// ResolveExplicit is Resolve without defaults for user and password: the
// caller must prove its own identity. The database still falls back.
func (r *AuthResolver) ResolveExplicit(headers http.Header, body map[string]any) domain.Credential {
	return domain.Credential{
		User:     firstPresent(fromHeader(headers, HeaderUser), fromBody(body, bodyUserKeys)),
		Password: firstPresent(fromHeader(headers, HeaderPassword), fromBody(body, bodyPasswordKeys)),
		Database: firstPresent(fromHeader(headers, HeaderDatabase), fromBody(body, bodyDatabaseKeys), constant(r.defaults.Database)),
	}
}

func fromHeader(headers http.Header, name string) lookup {
	return func() string {
		if headers == nil {
			return ""
		}
		return headers.Get(name)
	}
}

func fromBody(body map[string]any, keys []string) lookup {
	return func() string {
		for _, key := range keys {
			if value, ok := body[key].(string); ok && strings.TrimSpace(value) != "" {
				return value
			}
		}
		return ""
	}
}

func constant(value string) lookup {
	return func() string { return value }
}
