package infrastructure

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/domain"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	catalogclient "nomadeAdmin/internal/modules/catalog/infrastructure"
	"nomadeAdmin/internal/platform/fakebackend"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/logging"
	"nomadeAdmin/internal/shared/normalization"
)

func newTestRegistry(t *testing.T) (*Registry, *fakebackend.Backend) {
	t.Helper()
	backend := fakebackend.New()
	baseURL := backend.Start()
	t.Cleanup(backend.Close)
	rest := restclient.New(baseURL, 2*time.Second, nil, restclient.WithLogger(logging.Discard()))
	registry := NewRegistry(catalogclient.NewServices(rest), RegistryOptions{
		Logger: logging.Discard(),
		Cache:  usecase.NewReferenceCache(time.Minute),
	})
	t.Cleanup(registry.Close)
	return registry, backend
}

func TestRegistryBindsEveryCanonicalEntity(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	assert.Equal(t, normalization.GetAllValidEntities(), registry.Entities())

	list, ok := registry.List("OneKey_Account")
	require.True(t, ok)
	assert.Equal(t, "accounts", list.Entity())

	_, ok = registry.List("spaceships")
	assert.False(t, ok)
}

func TestRegistryAccountStatsFromLoadedPage(t *testing.T) {
	t.Parallel()

	registry, backend := newTestRegistry(t)
	backend.Seed("/api/onekey/accounts/",
		map[string]any{"user": uuid.NewString(), "tier": "diamond", "total_points": 500},
		map[string]any{"user": uuid.NewString(), "tier": "Gold", "total_points": 20},
	)

	list, _ := registry.List("accounts")
	require.NoError(t, list.Mount(context.Background()))
	raw, ok := list.StatsSnapshot()
	require.True(t, ok)
	stats := raw.(usecase.Stats)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Counts["diamond"])
	assert.Equal(t, 1, stats.Counts["gold"])
	assert.Equal(t, float64(520), stats.Sums["totalPoints"])
	assert.False(t, stats.Sampled)

	airlines, _ := registry.List("airlines")
	_, ok = airlines.StatsSnapshot()
	assert.False(t, ok)
}

func TestRegistryFormCreatesAndRefreshesList(t *testing.T) {
	t.Parallel()

	registry, backend := newTestRegistry(t)
	binding, ok := registry.Binding("accounts")
	require.True(t, ok)
	require.NotNil(t, binding.Schema)
	require.NoError(t, binding.List.Mount(context.Background()))

	form, err := binding.NewForm(context.Background(), "")
	require.NoError(t, err)
	form.Set("user", uuid.NewString())
	form.Set("tier", "gold")
	_, err = form.SubmitAny(context.Background())
	require.NoError(t, err)

	assert.Len(t, backend.Records("/api/onekey/accounts/"), 1)
	state, ok := binding.List.Snapshot().(domain.ListState[catalog.OneKeyAccount])
	require.True(t, ok)
	assert.Len(t, state.Items, 1)
}

func TestRegistryEditFormLoadsRecord(t *testing.T) {
	t.Parallel()

	registry, backend := newTestRegistry(t)
	seeded := backend.Seed("/api/flights/airlines/", map[string]any{"name": "Air France", "code": "AF"})
	binding, _ := registry.Binding("airline")
	assert.Nil(t, binding.Schema)

	form, err := binding.NewForm(context.Background(), seeded[0]["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, "AF", form.Draft()["code"])

	form.Set("name", "Air France KLM")
	_, err = form.SubmitAny(context.Background())
	require.NoError(t, err)

	patches := backend.Calls(http.MethodPatch, "/api/flights/airlines/")
	require.Len(t, patches, 1)
	assert.Equal(t, map[string]any{"name": "Air France KLM"}, patches[0].Body)

	_, err = binding.NewForm(context.Background(), uuid.NewString())
	var redirect *usecase.RedirectError
	assert.ErrorAs(t, err, &redirect)
}

func TestRegistryFormReferenceOptions(t *testing.T) {
	t.Parallel()

	registry, backend := newTestRegistry(t)
	types := backend.Seed("/api/accommodations/property-types/", map[string]any{"name": "Hotel"})
	backend.FailNext(http.MethodGet, "/api/accommodations/property-categories/", http.StatusInternalServerError, `{"detail":"down"}`)

	binding, _ := registry.Binding("properties")
	form, err := binding.NewForm(context.Background(), "")
	require.NoError(t, err)

	options := form.LoadReferences(context.Background())
	assert.Equal(t, []port.Option{{Value: types[0]["id"].(string), Label: "Hotel"}}, options["property-types"])
	assert.Empty(t, options["property-categories"])
}

func TestRegistryGallery(t *testing.T) {
	t.Parallel()

	registry, backend := newTestRegistry(t)
	airportID := uuid.NewString()
	backend.Seed("/api/images/airport-images/",
		map[string]any{"airport": airportID, "image_url": "https://cdn/a.jpg", "display_order": 1, "is_primary": true},
		map[string]any{"airport": airportID, "image_url": "https://cdn/b.jpg", "display_order": 0},
		map[string]any{"airport": uuid.NewString(), "image_url": "https://cdn/other.jpg"},
	)

	gallery, ok := registry.Gallery("airport", airportID, nil)
	require.True(t, ok)
	images, err := gallery.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn/b.jpg", images[0].ImageURL)

	require.NoError(t, gallery.Promote(context.Background(), images[0].ID))
	primary, ok := gallery.Primary()
	require.True(t, ok)
	assert.Equal(t, images[0].ID, primary.ID)

	_, ok = registry.Gallery("packages", airportID, nil)
	assert.False(t, ok)
	assert.Contains(t, registry.GalleryNames(), "properties")
}

func TestRegistryStreamsListStates(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	hub := NewHub(logging.Discard())
	client := NewClient(hub, nil, "op-1", "cars", 8, nil)
	hub.AttachClient(client, []string{domain.ListTopic("cars")})
	stop := registry.StreamTo(hub)

	list, _ := registry.List("cars")
	require.NoError(t, list.Refresh(context.Background()))
	assert.Equal(t, "true", receive(t, client).Metadata["loading"])
	assert.Equal(t, "false", receive(t, client).Metadata["loading"])

	stop()
	require.NoError(t, list.Refresh(context.Background()))
	assertSilent(t, client)
}
