package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	catalogclient "nomadeAdmin/internal/modules/catalog/infrastructure"
	"nomadeAdmin/internal/platform/fakebackend"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/auth"
	"nomadeAdmin/internal/shared/logging"
)

type harness struct {
	backend  *fakebackend.Backend
	session  *auth.Session
	services *catalogclient.Services
	registry *infrastructure.Registry
	toasts   *bytes.Buffer
}

func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()
	backend := fakebackend.New()
	baseURL := backend.Start()
	t.Cleanup(backend.Close)
	backend.EnforceAuth()
	backend.AddAccount("ops@nomade.test", "s3cret!", nil)

	logger := logging.Discard()
	session := auth.NewSession(auth.NewMemoryStore(), nil, logger)
	rest := restclient.New(baseURL, 2*time.Second, nil, restclient.WithAuthenticator(session), restclient.WithLogger(logger))
	services := catalogclient.NewServices(rest)
	toasts := &bytes.Buffer{}
	registry := infrastructure.NewRegistry(services, infrastructure.RegistryOptions{Notifier: NewNotifier(toasts), Logger: logger})
	t.Cleanup(registry.Close)

	if signedIn {
		token := backend.IssueToken("ops@nomade.test")
		require.NoError(t, session.Login(context.Background(), token, auth.Principal{ID: "op-1", Email: "ops@nomade.test"}, ""))
	}
	return &harness{backend: backend, session: session, services: services, registry: registry, toasts: toasts}
}

// run executes adminctl with args, feeding input to prompts. It returns stdout and the error.
func (h *harness) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	app := NewApp(Deps{
		Session:      h.session,
		SessionUC:    usecase.NewSessionUseCase(h.services.Auth, h.session, logging.Discard()),
		Registry:     h.registry,
		In:           strings.NewReader(input),
		Out:          out,
		Err:          &bytes.Buffer{},
		ReadPassword: func() ([]byte, error) { return []byte("s3cret!"), nil },
	})
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginPromptsForEmailAndKeepsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	out, err := h.run(t, "ops@nomade.test\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ops@nomade.test")
	assert.True(t, h.session.IsAuthenticated())

	out, err = h.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "ops@nomade.test\n", out)

	_, err = h.run(t, "", "logout")
	require.NoError(t, err)
	assert.False(t, h.session.IsAuthenticated())
}

func TestCommandsRequireSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	_, err := h.run(t, "", "list", "airlines")
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.Empty(t, h.backend.Calls("", "/api/flights/"))

	out, err := h.run(t, "", "entities")
	require.NoError(t, err)
	assert.Contains(t, out, "airlines\n")
}

func TestListSearchPrintsMatchingRows(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true)
	h.backend.Seed("/api/flights/airlines/",
		map[string]any{"name": "Air France", "code": "AF"},
		map[string]any{"name": "KLM", "code": "KL"},
	)

	out, err := h.run(t, "", "list", "airline", "--search", "klm")
	require.NoError(t, err)
	assert.Contains(t, out, "KLM")
	assert.NotContains(t, out, "Air France")
	assert.Contains(t, out, `1 of 1 airlines, page 1, search "klm"`)

	_, err = h.run(t, "", "list", "spaceships")
	require.ErrorIs(t, err, errUnknownEntity)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true)
	seeded := h.backend.Seed("/api/flights/airlines/", map[string]any{"name": "KLM", "code": "KL"})
	id := seeded[0]["id"].(string)

	cases := map[string]struct {
		input   string
		args    []string
		deleted bool
	}{
		"declined":  {input: "n\n", args: []string{"delete", "airlines", id}},
		"no answer": {input: "", args: []string{"delete", "airlines", id}},
		"accepted":  {input: "y\n", args: []string{"delete", "airlines", id}, deleted: true},
	}
	for _, name := range []string{"declined", "no answer", "accepted"} {
		tc := cases[name]
		out, err := h.run(t, tc.input, tc.args...)
		require.NoError(t, err, name)
		if tc.deleted {
			assert.Empty(t, h.backend.Records("/api/flights/airlines/"), name)
			assert.Contains(t, h.toasts.String(), "[ok] Airline deleted", name)
			continue
		}
		assert.Contains(t, out, "Aborted", name)
		assert.Len(t, h.backend.Records("/api/flights/airlines/"), 1, name)
	}
	assert.Len(t, h.backend.Calls(http.MethodDelete, "/api/flights/airlines/"), 1)
}

func TestCreateReportsFieldErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true)
	_, err := h.run(t, "", "create", "accounts", "user=nope", "tier=gold")
	require.ErrorIs(t, err, usecase.ErrInvalidForm)
	assert.Empty(t, h.backend.Calls(http.MethodPost, "/api/onekey/accounts/"))

	out, err := h.run(t, "", "create", "accounts", "user="+uuid.NewString(), "tier=gold", "total_points=40")
	require.NoError(t, err)
	assert.Contains(t, out, "gold")
	assert.Contains(t, h.toasts.String(), "[ok] Account created")

	_, err = h.run(t, "", "create", "accounts", "tier")
	require.Error(t, err)
}

func TestStatsFlagsPageLocalFigures(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true)
	h.backend.PageSize = 1
	h.backend.Seed("/api/onekey/accounts/",
		map[string]any{"tier": "gold", "total_points": 75},
		map[string]any{"tier": "silver", "total_points": 5},
	)

	out, err := h.run(t, "", "stats", "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "totalPoints")
	assert.Contains(t, out, "75")
	assert.Contains(t, out, "counts and sums cover the current page only")

	_, err = h.run(t, "", "stats", "airlines")
	require.Error(t, err)
}

func TestGalleryCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true)
	airportID := uuid.NewString()
	images := h.backend.Seed("/api/images/airport-images/",
		map[string]any{"airport": airportID, "image_url": "https://cdn/a.jpg", "display_order": 0, "is_primary": true},
		map[string]any{"airport": airportID, "image_url": "https://cdn/b.jpg", "display_order": 1, "is_primary": false},
	)
	second := images[1]["id"].(string)

	out, err := h.run(t, "", "gallery", "list", "airports", airportID)
	require.NoError(t, err)
	assert.Contains(t, out, "https://cdn/a.jpg")

	_, err = h.run(t, "", "gallery", "promote", "airports", airportID, second)
	require.NoError(t, err)
	for _, record := range h.backend.Records("/api/images/airport-images/") {
		assert.Equal(t, record["id"] == second, record["is_primary"], record["id"])
	}

	out, err = h.run(t, "n\n", "gallery", "rm", "airports", airportID, second)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	_, err = h.run(t, "", "gallery", "rm", "airports", airportID, second, "--yes")
	require.NoError(t, err)
	assert.Len(t, h.backend.Records("/api/images/airport-images/"), 1)

	_, err = h.run(t, "", "gallery", "list", "packages", airportID)
	require.ErrorIs(t, err, errUnknownGallery)
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		args    []string
		want    map[string]any
		wantErr bool
	}{
		"pairs":       {args: []string{"name=KLM", "code=KL"}, want: map[string]any{"name": "KLM", "code": "KL"}},
		"value has =": {args: []string{"url=https://x/?a=b"}, want: map[string]any{"url": "https://x/?a=b"}},
		"empty value": {args: []string{"caption="}, want: map[string]any{"caption": ""}},
		"missing =":   {args: []string{"name"}, wantErr: true},
		"empty name":  {args: []string{"=x"}, wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseAssignments(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tc.args)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
