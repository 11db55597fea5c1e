package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultAuthScheme = "Token"
	HeaderRequestID   = "X-Request-ID"

	errorBodyLimit = 8 << 10
)

// Authenticator supplies the credential presented on calls made under ctx and is told which
// token the backend rejected.
type Authenticator interface {
	Credential(ctx context.Context) string
	Reject(ctx context.Context, token string)
}

// Client wraps http.Client with base URL handling, auth headers and DRF error decoding so
// resource adapters only describe paths and payloads.
type Client struct {
	baseURL string
	scheme  string
	client  *http.Client
	auth    Authenticator
	logger  *slog.Logger
}

type Option func(*Client)

func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(scheme); trimmed != "" {
			c.scheme = trimmed
		}
	}
}

func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) { c.auth = auth }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, timeout time.Duration, client *http.Client, opts ...Option) *Client {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	c := &Client{baseURL: trimmed, scheme: DefaultAuthScheme, client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logger returns the logger the client was configured with, for adapters built on top of it.
func (c *Client) Logger() *slog.Logger { return c.logger }

func (c *Client) BaseURL() string { return c.baseURL }

// NewRequest builds a request against the base URL with Accept, Authorization and
// X-Request-ID headers already set.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if token := strings.TrimSpace(c.auth.Credential(ctx)); token != "" {
			req.Header.Set("Authorization", c.scheme+" "+token)
		}
	}
	req.Header.Set(HeaderRequestID, requestIDFor(ctx))
	return req, nil
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// DoJSON sends in (when non-nil) as a JSON body and decodes a successful response into out
// (when non-nil). Failures come back as *APIError.
func (c *Client) DoJSON(ctx context.Context, method, endpoint string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s payload: %w", method, endpoint, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.NewRequest(ctx, method, endpoint, body)
	if err != nil {
		c.logger.Error("backend request build failed", slog.String("method", method), slog.String("path", endpoint), slog.Any("error", err))
		return &APIError{Kind: ErrTransport, Method: method, Path: endpoint, Cause: err}
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	requestID := req.Header.Get(HeaderRequestID)
	c.logger.Debug("backend request", slog.String("method", method), slog.String("url", req.URL.String()), slog.String("requestId", requestID))

	res, err := c.Do(req)
	if err != nil {
		c.logger.Error("backend request error", slog.String("method", method), slog.String("path", endpoint), slog.String("requestId", requestID), slog.Any("error", err))
		return &APIError{Kind: ErrTransport, Method: method, Path: endpoint, Cause: err}
	}
	defer res.Body.Close()
	c.logger.Debug("backend response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("requestId", requestID))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return c.failure(req, res, requestID)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &APIError{Kind: ErrUnexpectedStatus, Status: res.StatusCode, Method: method, Path: endpoint, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) failure(req *http.Request, res *http.Response, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
	detail, fields := decodeErrorBody(raw)
	apiErr := &APIError{
		Kind:   kindForStatus(res.StatusCode),
		Status: res.StatusCode,
		Method: req.Method,
		Path:   req.URL.Path,
		Detail: detail,
		Fields: fields,
	}

	if res.StatusCode == http.StatusUnauthorized && c.auth != nil {
		c.logger.Warn("backend rejected credentials, expiring session", slog.String("path", req.URL.Path), slog.String("requestId", requestID))
		c.auth.Reject(req.Context(), c.presentedToken(req))
	}
	if apiErr.Kind == ErrUnexpectedStatus {
		c.logger.Error("backend unexpected status",
			slog.Int("status", res.StatusCode),
			slog.String("url", req.URL.String()),
			slog.String("requestId", requestID),
			slog.String("body", strings.TrimSpace(string(raw))),
		)
	}
	return apiErr
}

func (c *Client) presentedToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(header, c.scheme+" "))
}

type requestIDKey struct{}

// ContextWithRequestID makes outgoing calls reuse an inbound request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(id))
}

func requestIDFor(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
