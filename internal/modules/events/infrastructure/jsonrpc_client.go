package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventDeskProxy/internal/modules/events/application/port"
	"eventDeskProxy/internal/modules/events/domain"
	"eventDeskProxy/internal/shared/normalization"
)

const jsonRPCPath = "/jsonrpc"

// JSONRPCClient implements OdooGateway over Odoo's JSON-RPC 2.0 endpoint.
// It holds no per-user state; every call carries its own credentials.
type JSONRPCClient struct {
	rest *RESTClient
}

// NewJSONRPCClient creates a client for the Odoo instance at baseURL.
func NewJSONRPCClient(baseURL string, timeout time.Duration, client *http.Client) *JSONRPCClient {
	return &JSONRPCClient{rest: NewRESTClient(baseURL, timeout, client)}
}

// Call posts one service call and returns the raw result member.
func (c *JSONRPCClient) Call(ctx context.Context, id int, service, method string, args []any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	envelope := domain.NewRPCRequest(id, domain.ServiceCall{Service: service, Method: method, Args: args})

	status, body, err := c.post(ctx, jsonRPCPath, envelope)
	if err != nil {
		slog.Error("odoo rpc request error", slog.String("service", service), slog.String("method", method), slog.Any("error", err))
		return nil, fmt.Errorf("odoo rpc %s.%s: %w", service, method, err)
	}
	slog.Debug("odoo rpc response", slog.String("service", service), slog.String("method", method), slog.Int("status", status))

	if !json.Valid(body) {
		return nil, &port.ProtocolError{Status: status, Body: string(body)}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &port.TransportError{Status: status, Body: string(body)}
	}

	var response domain.RPCResponse
	if err := json.Unmarshal(body, &response); err != nil {
		// Valid JSON that is not an object carries no result.
		return nil, nil
	}
	if rpcErr, _ := normalization.DecodeRaw(response.Error); normalization.IsTruthy(rpcErr) {
		return nil, &port.RemoteError{Payload: compact(response.Error)}
	}
	return response.Result, nil
}

// Login authenticates against the common service. A zero uid means Odoo
// rejected the credential.
func (c *JSONRPCClient) Login(ctx context.Context, database, user, password string) (int64, error) {
	result, err := c.Call(ctx, domain.LoginCallID, domain.ServiceCommon, domain.MethodLogin, []any{database, user, password})
	if err != nil {
		return 0, err
	}
	value, err := normalization.DecodeRaw(result)
	if err != nil || !normalization.IsTruthy(value) {
		return 0, nil
	}
	uid := normalization.AsInt64(value)
	if uid < 0 {
		return 0, nil
	}
	return uid, nil
}

// ExecuteKw runs a model method through the object service.
func (c *JSONRPCClient) ExecuteKw(ctx context.Context, req domain.ExecuteRequest) (json.RawMessage, error) {
	args := req.Args
	if args == nil {
		args = []any{}
	}
	kwargs := req.Kwargs
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	slog.Debug("odoo execute_kw", slog.String("model", req.Model), slog.String("method", req.Method), slog.Int64("uid", req.UID))
	return c.Call(ctx, domain.ExecuteCallID, domain.ServiceObject, domain.MethodExecuteKw, []any{
		req.Database, req.UID, req.Password, req.Model, req.Method, args, kwargs,
	})
}

// Forward posts params inside a call envelope to a custom Odoo route and
// relays its JSON answer with the remote status.
func (c *JSONRPCClient) Forward(ctx context.Context, path string, params map[string]any) (*port.ForwardResponse, error) {
	trimmedPath := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmedPath, "/") {
		trimmedPath = "/" + trimmedPath
	}

	status, body, err := c.post(ctx, trimmedPath, domain.NewRPCRequest(domain.ForwardCallID, params))
	if err != nil {
		slog.Error("odoo forward request error", slog.String("path", trimmedPath), slog.Any("error", err))
		return nil, fmt.Errorf("odoo forward %s: %w", trimmedPath, err)
	}
	slog.Debug("odoo forward response", slog.String("path", trimmedPath), slog.Int("status", status))

	if !json.Valid(body) {
		return nil, &port.NonJSONError{Status: status, Body: string(body)}
	}
	return &port.ForwardResponse{Status: status, Body: json.RawMessage(body)}, nil
}

func (c *JSONRPCClient) post(ctx context.Context, path string, envelope domain.RPCRequest) (int, []byte, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return 0, nil, fmt.Errorf("encode envelope: %w", err)
	}
	req, err := c.rest.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.rest.Do(req)
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

var _ port.OdooGateway = (*JSONRPCClient)(nil)
