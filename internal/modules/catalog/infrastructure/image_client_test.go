package infrastructure

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadeAdmin/internal/modules/catalog/domain"
)

func TestImageClientCreateFlagGallery(t *testing.T) {
	t.Parallel()

	services, backend := newTestServices(t)
	airports := services.Galleries["airports"]
	require.NotNil(t, airports)

	image, err := airports.Create(context.Background(), "ap-1", domain.NewImage{ImageURL: " https://cdn/x.jpg ", AltText: "runway"}, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "ap-1", image.ParentID)
	assert.True(t, image.IsPrimary)

	posts := backend.Calls(http.MethodPost, "/api/images/airport-images/")
	require.Len(t, posts, 1)
	assert.Equal(t, map[string]any{
		"airport":       "ap-1",
		"image_url":     "https://cdn/x.jpg",
		"image_type":    "main",
		"alt_text":      "runway",
		"display_order": float64(0),
		"is_primary":    true,
	}, posts[0].Body)
}

func TestImageClientCreateMainTypeGalleryOmitsFlag(t *testing.T) {
	t.Parallel()

	services, backend := newTestServices(t)
	properties := services.Galleries["properties"]

	_, err := properties.Create(context.Background(), "p-1", domain.NewImage{ImageURL: "https://cdn/p.jpg"}, 2, false)
	require.NoError(t, err)

	posts := backend.Calls(http.MethodPost, "/api/accommodations/property-images/")
	require.Len(t, posts, 1)
	_, hasFlag := posts[0].Body["is_primary"]
	assert.False(t, hasFlag)
	assert.Equal(t, "gallery", posts[0].Body["image_type"])
	assert.Equal(t, "p-1", posts[0].Body["property"])
}

func TestImageClientListScopesToParent(t *testing.T) {
	t.Parallel()

	services, backend := newTestServices(t)
	backend.Seed("/api/images/cruise-ship-images/",
		map[string]any{"cruise_ship": "s-1", "image_url": "a", "image_type": "exterior"},
		map[string]any{"cruise_ship": "s-2", "image_url": "b", "image_type": "exterior"},
		map[string]any{"cruise_ship": "s-1", "image_url": "c", "image_type": "cabin"},
	)

	ships := services.Galleries["cruise-ships"]
	all, err := ships.List(context.Background(), "s-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, image := range all {
		assert.Equal(t, "s-1", image.ParentID)
	}

	cabins, err := ships.List(context.Background(), "s-1", "cabin")
	require.NoError(t, err)
	require.Len(t, cabins, 1)
	assert.Equal(t, "c", cabins[0].ImageURL)
}

func TestGalleryNamesSorted(t *testing.T) {
	t.Parallel()

	services, _ := newTestServices(t)
	names := services.GalleryNames()
	assert.Equal(t, []string{"airlines", "airports", "cars", "cruise-ships", "cruises", "flights", "properties", "rooms"}, names)
}
