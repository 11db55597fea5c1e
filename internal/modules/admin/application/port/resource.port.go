package port

import (
	"context"

	catalog "nomadeAdmin/internal/modules/catalog/domain"
)

// PageFetcher loads one page of an entity list for a search term.
type PageFetcher[T any] func(ctx context.Context, page int, search string) (catalog.Page[T], error)

// ImageStore is the parent-scoped image collection a gallery manages.
type ImageStore interface {
	List(ctx context.Context, parentID, imageType string) ([]catalog.Image, error)
	Create(ctx context.Context, parentID string, input catalog.NewImage, displayOrder int, primary bool) (catalog.Image, error)
	SetPrimary(ctx context.Context, imageID string, primary bool) (catalog.Image, error)
	Delete(ctx context.Context, imageID string) error
}

// OptionLoader fetches one reference option set for a form select.
type OptionLoader func(ctx context.Context) ([]Option, error)

// Option is one entry of a reference option set.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AuthGateway is the backend authentication endpoint pair.
type AuthGateway interface {
	Login(ctx context.Context, credentials catalog.Credentials) (catalog.LoginResponse, error)
	Logout(ctx context.Context) error
}
