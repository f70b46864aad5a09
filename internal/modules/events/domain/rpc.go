package domain

import "encoding/json"

// JSON-RPC services and methods exposed by Odoo.
const (
	ServiceCommon = "common"
	ServiceObject = "object"

	MethodLogin     = "login"
	MethodExecuteKw = "execute_kw"

	// RPCVersion and RPCCallMethod form the fixed part of every envelope.
	RPCVersion    = "2.0"
	RPCCallMethod = "call"
)

// Envelope IDs used by the proxy. Odoo echoes them back; they are not correlated.
const (
	LoginCallID   = 1
	ExecuteCallID = 2
	ForwardCallID = 1
)

// RPCRequest is the JSON-RPC 2.0 envelope posted to Odoo.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

// ServiceCall is the params member of a /jsonrpc call.
type ServiceCall struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

// RPCResponse is the envelope returned by Odoo. Result and Error are kept raw.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// NewRPCRequest wraps params in a "call" envelope.
func NewRPCRequest(id int, params any) RPCRequest {
	return RPCRequest{JSONRPC: RPCVersion, Method: RPCCallMethod, Params: params, ID: id}
}

// ExecuteRequest describes one execute_kw invocation.
type ExecuteRequest struct {
	Database string
	UID      int64
	Password string
	Model    string
	Method   string
	Args     []any
	Kwargs   map[string]any
}

// Domain is an Odoo search domain: a list of (field, operator, value) triples.
type Domain [][]any

// Condition builds one domain triple.
func Condition(field, operator string, value any) []any {
	return []any{field, operator, value}
}
