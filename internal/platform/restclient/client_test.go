package restclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenKey struct{}

type stubAuth struct {
	mu       sync.Mutex
	token    string
	expired  int
	rejected string
}

// Credential prefers a token carried by ctx, like a per-caller authenticator would.
func (s *stubAuth) Credential(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubAuth) Reject(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected = token
	if token == s.token {
		s.token = ""
	}
	s.expired++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func captureServer(status int, body string) (*httptest.Server, <-chan *http.Request) {
	requests := make(chan *http.Request, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.Clone(context.Background())
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		if body != "" {
			_, _ = w.Write([]byte(body))
		}
	}))
	return server, requests
}

func TestDoJSONSendsHeadersAndDecodes(t *testing.T) {
	t.Parallel()

	server, requests := captureServer(http.StatusOK, `{"id":"7","name":"Hotel Sol"}`)
	defer server.Close()

	auth := &stubAuth{token: "abc123"}
	client := New(server.URL+"/", time.Second, nil, WithAuthenticator(auth), WithLogger(quietLogger()))

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := client.DoJSON(context.Background(), http.MethodGet, "/api/accommodations/properties/", url.Values{"page": {"2"}}, nil, &out)
	require.NoError(t, err)
	seen := <-requests

	assert.Equal(t, "Hotel Sol", out.Name)
	assert.Equal(t, "Token abc123", seen.Header.Get("Authorization"))
	assert.Equal(t, "/api/accommodations/properties/", seen.URL.Path)
	assert.Equal(t, "2", seen.URL.Query().Get("page"))
	_, parseErr := uuid.Parse(seen.Header.Get(HeaderRequestID))
	assert.NoError(t, parseErr)
}

func TestDoJSONReusesInboundRequestID(t *testing.T) {
	t.Parallel()

	server, requests := captureServer(http.StatusNoContent, "")
	defer server.Close()

	client := New(server.URL, time.Second, nil, WithLogger(quietLogger()))
	ctx := ContextWithRequestID(context.Background(), "req-42")
	require.NoError(t, client.DoJSON(ctx, http.MethodDelete, "/api/flights/airports/1/", nil, nil, nil))
	assert.Equal(t, "req-42", (<-requests).Header.Get(HeaderRequestID))
}

func TestBearerSchemeIsConfigurable(t *testing.T) {
	t.Parallel()

	server, requests := captureServer(http.StatusNoContent, "")
	defer server.Close()

	client := New(server.URL, time.Second, nil, WithAuthScheme("Bearer"), WithAuthenticator(&stubAuth{token: "jwt"}), WithLogger(quietLogger()))
	require.NoError(t, client.DoJSON(context.Background(), http.MethodGet, "/x/", nil, nil, nil))
	assert.Equal(t, "Bearer jwt", (<-requests).Header.Get("Authorization"))
}

func TestDoJSONOmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	server, requests := captureServer(http.StatusNoContent, "")
	defer server.Close()

	client := New(server.URL, time.Second, nil, WithAuthenticator(&stubAuth{}), WithLogger(quietLogger()))
	require.NoError(t, client.DoJSON(context.Background(), http.MethodGet, "/x/", nil, nil, nil))
	_, present := (<-requests).Header["Authorization"]
	assert.False(t, present)
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		status int
		body   string
		kind   error
		detail string
	}{
		"validation": {status: http.StatusBadRequest, body: `{"tier":["not a valid choice"]}`, kind: ErrValidation},
		"forbidden":  {status: http.StatusForbidden, body: `{"detail":"no permission"}`, kind: ErrForbidden, detail: "no permission"},
		"not found":  {status: http.StatusNotFound, body: `{"detail":"Not found."}`, kind: ErrNotFound, detail: "Not found."},
		"conflict":   {status: http.StatusConflict, body: `{"detail":"in use"}`, kind: ErrConflict, detail: "in use"},
		"message":    {status: http.StatusInternalServerError, body: `{"message":"boom"}`, kind: ErrUnexpectedStatus, detail: "boom"},
		"plain":      {status: http.StatusBadGateway, body: `upstream down`, kind: ErrUnexpectedStatus},
	}

	for name, tc := range cases {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := New(server.URL, time.Second, nil, WithLogger(quietLogger()))
			err := client.DoJSON(context.Background(), http.MethodGet, "/x/", nil, nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "expected %v, got %v", tc.kind, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.detail, apiErr.Detail)
		})
	}
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer server.Close()

	auth := &stubAuth{token: "stale"}
	client := New(server.URL, time.Second, nil, WithAuthenticator(auth), WithLogger(quietLogger()))
	err := client.DoJSON(context.Background(), http.MethodGet, "/api/users/users/me/", nil, nil, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, auth.expired)
	assert.Equal(t, "stale", auth.rejected)
	assert.Empty(t, auth.Credential(context.Background()))
}

func TestUnauthorizedRejectsThePresentedToken(t *testing.T) {
	t.Parallel()

	server, requests := captureServer(http.StatusUnauthorized, `{"detail":"Invalid token."}`)
	defer server.Close()

	auth := &stubAuth{token: "held"}
	client := New(server.URL, time.Second, nil, WithAuthenticator(auth), WithLogger(quietLogger()))
	ctx := context.WithValue(context.Background(), tokenKey{}, "caller")
	err := client.DoJSON(ctx, http.MethodGet, "/api/users/users/me/", nil, nil, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	req := <-requests
	assert.Equal(t, "Token caller", req.Header.Get("Authorization"))
	assert.Equal(t, "caller", auth.rejected)
	assert.Equal(t, "held", auth.Credential(context.Background()))
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	client := New(target, time.Second, nil, WithLogger(quietLogger()))
	err := client.DoJSON(context.Background(), http.MethodGet, "/x/", nil, nil, nil)
	require.ErrorIs(t, err, ErrTransport)
}

func TestDecodeErrorBodyKeepsFieldOrder(t *testing.T) {
	t.Parallel()

	detail, fields := decodeErrorBody([]byte(`{"user":["This field is required."],"tier":["bad"],"total_points":"must be positive"}`))
	require.Empty(t, detail)
	require.Len(t, fields, 3)
	assert.Equal(t, "user", fields[0].Field)
	assert.Equal(t, "tier", fields[1].Field)
	assert.Equal(t, []string{"must be positive"}, fields[2].Messages)

	err := &APIError{Kind: ErrValidation, Fields: fields}
	assert.Equal(t, "This field is required.", UserMessage(err, "fallback"))
	assert.Equal(t, "fallback", DetailMessage(err, "fallback"))
}

func TestUserMessagePrefersDetail(t *testing.T) {
	t.Parallel()

	err := &APIError{Kind: ErrConflict, Detail: "in use", Fields: []FieldError{{Field: "x", Messages: []string{"y"}}}}
	assert.Equal(t, "in use", UserMessage(err, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("plain"), "fallback"))
}
