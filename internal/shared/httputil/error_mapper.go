package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ErrorMapping represents a single error to HTTP status/message mapping.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// MessageResolver lets the mapper surface text carried by the error itself (backend detail,
// field errors). It returns fallback when the error carries nothing useful.
type MessageResolver func(err error, fallback string) string

// DetailsResolver extracts structured details (field errors) for the response body.
type DetailsResolver func(err error) any

// ErrorMapper maps domain errors to HTTP status codes and messages.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
	resolveMessage MessageResolver
	resolveDetails DetailsResolver
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		mappings:       make([]ErrorMapping, 0),
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{
		Error:   err,
		Status:  status,
		Message: message,
	})
	return m
}

func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

func (m *ErrorMapper) WithMessageResolver(resolver MessageResolver) *ErrorMapper {
	m.resolveMessage = resolver
	return m
}

func (m *ErrorMapper) WithDetailsResolver(resolver DetailsResolver) *ErrorMapper {
	m.resolveDetails = resolver
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK, Message: ""}
	}

	// Context errors win over anything wrapped alongside them.
	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			info := HTTPErrorInfo{Status: mapping.Status, Message: mapping.Message}
			if m.resolveMessage != nil {
				info.Message = m.resolveMessage(err, mapping.Message)
			}
			if m.resolveDetails != nil {
				info.Details = m.resolveDetails(err)
			}
			return info
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}

// Respond writes the mapped error as a JSON body.
func (m *ErrorMapper) Respond(c echo.Context, err error) error {
	info := m.Map(err)
	return c.JSON(info.Status, info)
}
