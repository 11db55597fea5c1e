package domain

import (
	"sort"
	"time"
)

// ImageTypeMain marks the main image of galleries that have no is_primary flag (properties).
const ImageTypeMain = "main"

// PrimaryMode tells how a gallery designates its primary image.
type PrimaryMode string

const (
	PrimaryFlag     PrimaryMode = "flag"
	PrimaryMainType PrimaryMode = "main-type"
)

// IsPrimaryIn reports whether the image is the primary one under mode.
func (i Image) IsPrimaryIn(mode PrimaryMode) bool {
	if mode == PrimaryMainType {
		return i.ImageType == ImageTypeMain
	}
	return i.IsPrimary
}

// Image is one record of a parent-scoped image collection. ParentID is filled by the image
// client from the parent field configured for the collection (property, airport, ...).
type Image struct {
	ID           string    `json:"id"`
	ParentID     string    `json:"-"`
	ImageURL     string    `json:"image_url"`
	ImageType    string    `json:"image_type"`
	AltText      string    `json:"alt_text,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsPrimary    bool      `json:"is_primary"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i Image) EntityID() string { return i.ID }

// NewImage is the operator input for adding an image to a gallery.
type NewImage struct {
	ImageURL  string `json:"image_url"`
	ImageType string `json:"image_type"`
	AltText   string `json:"alt_text,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

// SortImages orders images by display_order, then by creation time.
func SortImages(images []Image) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].DisplayOrder != images[j].DisplayOrder {
			return images[i].DisplayOrder < images[j].DisplayOrder
		}
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
}
