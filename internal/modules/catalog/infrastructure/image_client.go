package infrastructure

import (
	"context"
	"strings"

	"nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
)

// GalleryConfig describes one parent-scoped image collection on the backend.
type GalleryConfig struct {
	Name        string
	Path        string
	ParentParam string
	ParentField string
	PrimaryMode domain.PrimaryMode
	DefaultType string
}

// ImageClient lists and mutates the images of a single parent kind.
type ImageClient struct {
	config    GalleryConfig
	resources *ResourceClient[domain.Image]
}

func NewImageClient(rest *restclient.Client, config GalleryConfig) *ImageClient {
	if config.PrimaryMode == "" {
		config.PrimaryMode = domain.PrimaryFlag
	}
	if strings.TrimSpace(config.DefaultType) == "" {
		config.DefaultType = domain.ImageTypeMain
	}
	return &ImageClient{
		config:    config,
		resources: NewResourceClient[domain.Image](rest, config.Name+"-images", config.Path),
	}
}

func (c *ImageClient) Config() GalleryConfig { return c.config }

// List returns the first page of the parent's images, optionally narrowed to one image type.
func (c *ImageClient) List(ctx context.Context, parentID, imageType string) ([]domain.Image, error) {
	filters := map[string]string{c.config.ParentParam: parentID}
	if trimmed := strings.TrimSpace(imageType); trimmed != "" {
		filters["image_type"] = trimmed
	}
	page, err := c.resources.GetAll(ctx, domain.ListQuery{Page: 1, Filters: filters})
	if err != nil {
		return nil, err
	}
	images := page.Results
	for index := range images {
		images[index].ParentID = parentID
	}
	return images, nil
}

// Create posts a new image. primary is only sent for galleries that carry the flag.
func (c *ImageClient) Create(ctx context.Context, parentID string, input domain.NewImage, displayOrder int, primary bool) (domain.Image, error) {
	imageType := strings.TrimSpace(input.ImageType)
	if imageType == "" {
		imageType = c.config.DefaultType
	}
	payload := map[string]any{
		c.config.ParentField: parentID,
		"image_url":          strings.TrimSpace(input.ImageURL),
		"image_type":         imageType,
		"display_order":      displayOrder,
	}
	if alt := strings.TrimSpace(input.AltText); alt != "" {
		payload["alt_text"] = alt
	}
	if caption := strings.TrimSpace(input.Caption); caption != "" {
		payload["caption"] = caption
	}
	if c.config.PrimaryMode == domain.PrimaryFlag {
		payload["is_primary"] = primary
	}
	image, err := c.resources.Create(ctx, payload)
	if err != nil {
		return domain.Image{}, err
	}
	image.ParentID = parentID
	return image, nil
}

func (c *ImageClient) SetPrimary(ctx context.Context, imageID string, primary bool) (domain.Image, error) {
	return c.resources.Update(ctx, imageID, map[string]any{"is_primary": primary})
}

func (c *ImageClient) Delete(ctx context.Context, imageID string) error {
	return c.resources.Delete(ctx, imageID)
}
