package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatedServer(resolver TokenResolver) *echo.Echo {
	e := echo.New()
	e.GET("/admin/api/accounts", func(c echo.Context) error {
		user, _ := PrincipalFromContext(c.Request().Context())
		return c.String(http.StatusOK, user.Email+" "+TokenFromContext(c.Request().Context()))
	}, RequireSession(resolver))
	return e
}

func signedInSessions(t *testing.T) *Sessions {
	t.Helper()
	sessions := NewSessions(nil, nil, quietLogger())
	require.NoError(t, sessions.Open(context.Background(), Record{Token: "tok-a", User: Principal{ID: "a", Email: "a@nomade.test"}}))
	return sessions
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	t.Parallel()

	e := newGatedServer(NewSessions(nil, nil, quietLogger()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/accounts", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestRequireSessionAnswersJSONClients(t *testing.T) {
	t.Parallel()

	e := newGatedServer(NewSessions(nil, nil, quietLogger()))
	req := httptest.NewRequest(http.MethodGet, "/admin/api/accounts", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), LoginPath)
}

func TestRequireSessionChecksEveryCaller(t *testing.T) {
	t.Parallel()

	e := newGatedServer(signedInSessions(t))
	cases := map[string]struct {
		header string
		cookie string
		want   int
		body   string
	}{
		"anonymous":     {want: http.StatusUnauthorized},
		"unknown token": {header: "Token tok-b", want: http.StatusUnauthorized},
		"header token":  {header: "Token tok-a", want: http.StatusOK, body: "a@nomade.test tok-a"},
		"bearer token":  {header: "Bearer tok-a", want: http.StatusOK, body: "a@nomade.test tok-a"},
		"cookie":        {cookie: "tok-a", want: http.StatusOK, body: "a@nomade.test tok-a"},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/admin/api/accounts", nil)
			req.Header.Set("Accept", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}
