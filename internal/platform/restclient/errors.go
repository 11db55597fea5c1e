package restclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrTransport        = errors.New("backend unreachable")
	ErrValidation       = errors.New("backend validation failed")
	ErrUnauthorized     = errors.New("backend unauthorized")
	ErrForbidden        = errors.New("backend forbidden")
	ErrNotFound         = errors.New("backend resource not found")
	ErrConflict         = errors.New("backend conflict")
	ErrUnexpectedStatus = errors.New("unexpected backend response")
)

// FieldError is one structured per-field validation error, in the order the backend sent it.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// APIError describes a failed backend call. Kind is one of the sentinel errors above so
// callers can use errors.Is; Cause keeps the underlying transport error when there is one.
type APIError struct {
	Kind   error
	Status int
	Method string
	Path   string
	Detail string
	Fields []FieldError
	Cause  error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Method != "" {
		fmt.Fprintf(&b, " (%s %s", e.Method, e.Path)
		if e.Status > 0 {
			fmt.Fprintf(&b, " -> %d", e.Status)
		}
		b.WriteString(")")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// FirstFieldError returns the first message of the first structured field error.
func (e *APIError) FirstFieldError() (string, bool) {
	for _, field := range e.Fields {
		for _, message := range field.Messages {
			if strings.TrimSpace(message) != "" {
				return message, true
			}
		}
	}
	return "", false
}

// UserMessage picks the text shown to operators: detail, then the first field error, then fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	if message, ok := apiErr.FirstFieldError(); ok {
		return message
	}
	return fallback
}

// DetailMessage returns the backend detail text only, ignoring field errors.
func DetailMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrUnexpectedStatus
	}
}

// decodeErrorBody extracts detail/message text and ordered field errors from a DRF error body.
func decodeErrorBody(body []byte) (string, []FieldError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", nil
	}
	if trimmed[0] != '{' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err == nil && len(list) > 0 {
			return list[0], nil
		}
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return "", nil
	}
	var (
		detail  string
		message string
		fields  []FieldError
	)
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			break
		}
		key, _ := token.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}
		messages := messagesFromRaw(raw)
		switch key {
		case "detail":
			if len(messages) > 0 {
				detail = messages[0]
			}
		case "message":
			if len(messages) > 0 {
				message = messages[0]
			}
		default:
			if len(messages) > 0 {
				fields = append(fields, FieldError{Field: key, Messages: messages})
			}
		}
	}
	if detail == "" {
		detail = message
	}
	return detail, fields
}

func messagesFromRaw(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var many []any
	if err := json.Unmarshal(raw, &many); err == nil {
		out := make([]string, 0, len(many))
		for _, item := range many {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
