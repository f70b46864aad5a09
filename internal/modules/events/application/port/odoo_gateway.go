package port

import (
	"context"
	"encoding/json"

	"eventDeskProxy/internal/modules/events/domain"
)

// ForwardResponse is the raw JSON answer of a non-standard Odoo endpoint.
type ForwardResponse struct {
	Status int
	Body   json.RawMessage
}

// OdooGateway is the remote procedure surface the proxy needs. Login and
// ExecuteKw are the only two JSON-RPC operations; Forward posts an envelope to a
// custom Odoo route and returns its answer untouched.
type OdooGateway interface {
	Login(ctx context.Context, database, user, password string) (int64, error)
	ExecuteKw(ctx context.Context, req domain.ExecuteRequest) (json.RawMessage, error)
	Forward(ctx context.Context, path string, params map[string]any) (*ForwardResponse, error)
}
