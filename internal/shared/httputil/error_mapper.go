package httputil

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping represents a single error to HTTP status/message mapping.
// An empty Message relays the error's own text.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
// Unmatched errors use the default status and relay err.Error().
type ErrorMapper struct {
	mappings      []ErrorMapping
	defaultStatus int
}

// NewErrorMapper creates a mapper whose default is 500 with the error text.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		mappings:      make([]ErrorMapping, 0),
		defaultStatus: http.StatusInternalServerError,
	}
}

// WithMapping adds an error mapping to the mapper.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{
		Error:   err,
		Status:  status,
		Message: message,
	})
	return m
}

// WithDefaultStatus sets the status used for unmatched errors.
func (m *ErrorMapper) WithDefaultStatus(status int) *ErrorMapper {
	m.defaultStatus = status
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK, Message: ""}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			message := mapping.Message
			if message == "" {
				message = err.Error()
			}
			return HTTPErrorInfo{Status: mapping.Status, Message: message}
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: err.Error()}
}

// ErrorEnvelope is the uniform failure body returned to clients.
type ErrorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// WriteError writes {"ok":false,"error":message} with the given status.
func WriteError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorEnvelope{OK: false, Error: message})
}
