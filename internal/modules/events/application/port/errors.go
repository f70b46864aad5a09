package port

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials indicates the request did not carry a user or password.
	ErrMissingCredentials = errors.New("missing user or password")
	// ErrLoginRejected indicates Odoo answered the login call with a falsy uid.
	ErrLoginRejected = errors.New("odoo login rejected")
	// ErrInvalidEventID is returned for zero or non-numeric event identifiers.
	ErrInvalidEventID = errors.New("invalid event id")
	// ErrInvalidPayload is returned when a registration names no event or no attendees.
	ErrInvalidPayload = errors.New("invalid registration payload")

	// ErrProtocol matches *ProtocolError.
	ErrProtocol = errors.New("odoo protocol error")
	// ErrTransport matches *TransportError.
	ErrTransport = errors.New("odoo transport error")
	// ErrRemote matches *RemoteError.
	ErrRemote = errors.New("odoo remote error")
	// ErrUpstreamNonJSON matches *NonJSONError.
	ErrUpstreamNonJSON = errors.New("odoo returned non-JSON")
)

// ProtocolError reports a /jsonrpc answer whose body is not JSON.
type ProtocolError struct {
	Status int
	Body   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("Odoo did not return JSON. Status=%d. Body=%s", e.Status, e.Body)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }

// TransportError reports a JSON answer carried by a non-2xx HTTP status.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return ErrTransport }

// RemoteError carries the JSON-RPC error member verbatim.
type RemoteError struct {
	Payload []byte
}

func (e *RemoteError) Error() string {
	return "Odoo JSON-RPC error: " + string(e.Payload)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

// NonJSONError reports a forwarded call answered with a non-JSON body.
type NonJSONError struct {
	Status int
	Body   string
}

func (e *NonJSONError) Error() string {
	return "Odoo returned non-JSON: " + e.Body
}

func (e *NonJSONError) Unwrap() error { return ErrUpstreamNonJSON }
