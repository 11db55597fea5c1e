package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/domain"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/logging"
)

var (
	ErrImageURLRequired = errors.New("image url is required")
	ErrImageNotFound    = errors.New("image not found in gallery")
	// ErrPartialPromotion means the new primary was set but at least one sibling kept its flag.
	// The gallery has been re-fetched to reflect the backend state.
	ErrPartialPromotion    = errors.New("primary image promotion partially applied")
	ErrPromoteUnsupported  = errors.New("gallery has no primary flag")
	ErrConfirmationMissing = errors.New("no confirmer configured")
)

type GalleryOptions struct {
	Name      string
	Mode      catalog.PrimaryMode
	ImageType string
	Confirmer port.Confirmer
	Notifier  port.Notifier
	Logger    *slog.Logger
}

// Gallery manages the images attached to one parent record.
type Gallery struct {
	store     port.ImageStore
	parentID  string
	name      string
	mode      catalog.PrimaryMode
	imageType string
	confirmer port.Confirmer
	notifier  port.Notifier
	logger    *slog.Logger

	mu     sync.Mutex
	images []catalog.Image
	loaded bool
}

func NewGallery(store port.ImageStore, parentID string, opts GalleryOptions) *Gallery {
	if opts.Mode == "" {
		opts.Mode = catalog.PrimaryFlag
	}
	if opts.Name == "" {
		opts.Name = "images"
	}
	return &Gallery{
		store:     store,
		parentID:  strings.TrimSpace(parentID),
		name:      opts.Name,
		mode:      opts.Mode,
		imageType: opts.ImageType,
		confirmer: opts.Confirmer,
		notifier:  opts.Notifier,
		logger: logging.Component(opts.Logger, "gallery").With(
			slog.String("gallery", opts.Name),
			slog.String("parentId", strings.TrimSpace(parentID)),
		),
	}
}

// Load fetches the parent's images ordered by display order, then creation time.
func (g *Gallery) Load(ctx context.Context) ([]catalog.Image, error) {
	images, err := g.store.List(ctx, g.parentID, g.imageType)
	if err != nil {
		g.logger.Warn("gallery load failed", slog.Any("error", err))
		g.notify(ctx, domain.ErrorToast(g.name, "Unable to load images"))
		return nil, err
	}
	catalog.SortImages(images)
	g.mu.Lock()
	g.images = images
	g.loaded = true
	g.mu.Unlock()
	return g.Images(), nil
}

// Images returns the loaded images in display order.
func (g *Gallery) Images() []catalog.Image {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]catalog.Image(nil), g.images...)
}

// Primary returns the first image designated primary under the gallery mode.
func (g *Gallery) Primary() (catalog.Image, bool) {
	for _, image := range g.Images() {
		if image.IsPrimaryIn(g.mode) {
			return image, true
		}
	}
	return catalog.Image{}, false
}

// Others returns every image except the one Primary reports.
func (g *Gallery) Others() []catalog.Image {
	primary, hasPrimary := g.Primary()
	images := g.Images()
	others := make([]catalog.Image, 0, len(images))
	for _, image := range images {
		if hasPrimary && image.ID == primary.ID {
			continue
		}
		others = append(others, image)
	}
	return others
}

// Add appends an image at the end of the gallery. In flag mode the first image becomes primary.
// A gallery that was never loaded fetches its images first so order and primary follow the
// backend state.
func (g *Gallery) Add(ctx context.Context, input catalog.NewImage) (catalog.Image, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return catalog.Image{}, ErrImageURLRequired
	}
	if input.ImageType == "" {
		input.ImageType = g.imageType
	}

	g.mu.Lock()
	loaded := g.loaded
	g.mu.Unlock()
	if !loaded {
		if _, err := g.Load(ctx); err != nil {
			return catalog.Image{}, err
		}
	}

	g.mu.Lock()
	count := len(g.images)
	g.mu.Unlock()
	primary := g.mode == catalog.PrimaryFlag && count == 0

	image, err := g.store.Create(ctx, g.parentID, input, count, primary)
	if err != nil {
		g.logger.Warn("image create failed", slog.Any("error", err))
		g.notify(ctx, domain.ErrorToast(g.name, restclient.UserMessage(err, "Unable to add image")))
		return catalog.Image{}, err
	}
	g.logger.Info("image added", slog.String("imageId", image.ID), slog.Int("displayOrder", count))
	g.notify(ctx, domain.SuccessToast(g.name, "Image added"))

	if _, err := g.Load(ctx); err != nil {
		g.mu.Lock()
		g.images = append(g.images, image)
		catalog.SortImages(g.images)
		g.mu.Unlock()
	}
	return image, nil
}

// Delete removes an image after the confirmer accepts. It reports whether the image was deleted.
func (g *Gallery) Delete(ctx context.Context, imageID string) (bool, error) {
	if g.confirmer == nil {
		return false, ErrConfirmationMissing
	}
	accepted, err := g.confirmer.Confirm(ctx, "Delete this image?")
	if err != nil {
		return false, err
	}
	if !accepted {
		return false, nil
	}
	if err := g.store.Delete(ctx, imageID); err != nil {
		g.logger.Warn("image delete failed", slog.String("imageId", imageID), slog.Any("error", err))
		g.notify(ctx, domain.ErrorToast(g.name, restclient.DetailMessage(err, "Unable to delete image")))
		return false, err
	}
	g.mu.Lock()
	kept := g.images[:0]
	for _, image := range g.images {
		if image.ID != imageID {
			kept = append(kept, image)
		}
	}
	g.images = kept
	g.mu.Unlock()
	g.logger.Info("image deleted", slog.String("imageId", imageID))
	g.notify(ctx, domain.SuccessToast(g.name, "Image deleted"))
	return true, nil
}

// Promote makes imageID the only primary image. The new primary is set first; siblings are
// cleared only once that succeeded. A failed clear re-fetches the gallery and returns
// ErrPartialPromotion.
func (g *Gallery) Promote(ctx context.Context, imageID string) error {
	if g.mode != catalog.PrimaryFlag {
		return ErrPromoteUnsupported
	}

	images := g.Images()
	var (
		target   *catalog.Image
		siblings []catalog.Image
	)
	for index := range images {
		image := images[index]
		if image.ID == imageID {
			target = &images[index]
			continue
		}
		if image.IsPrimary {
			siblings = append(siblings, image)
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrImageNotFound, imageID)
	}
	if target.IsPrimary && len(siblings) == 0 {
		return nil
	}

	if !target.IsPrimary {
		if _, err := g.store.SetPrimary(ctx, imageID, true); err != nil {
			g.logger.Warn("set primary failed", slog.String("imageId", imageID), slog.Any("error", err))
			g.notify(ctx, domain.ErrorToast(g.name, restclient.DetailMessage(err, "Unable to set primary image")))
			return err
		}
	}

	var failures []error
	for _, sibling := range siblings {
		if _, err := g.store.SetPrimary(ctx, sibling.ID, false); err != nil {
			g.logger.Warn("clear primary failed", slog.String("imageId", sibling.ID), slog.Any("error", err))
			failures = append(failures, fmt.Errorf("clear %s: %w", sibling.ID, err))
		}
	}

	if len(failures) > 0 {
		if _, err := g.Load(ctx); err != nil {
			failures = append(failures, fmt.Errorf("reconcile: %w", err))
		}
		g.notify(ctx, domain.ErrorToast(g.name, "Primary image updated, but another image is still flagged primary"))
		return fmt.Errorf("%w: %w", ErrPartialPromotion, errors.Join(failures...))
	}

	g.mu.Lock()
	for index := range g.images {
		g.images[index].IsPrimary = g.images[index].ID == imageID
	}
	g.mu.Unlock()
	g.logger.Info("primary image promoted", slog.String("imageId", imageID), slog.Int("cleared", len(siblings)))
	g.notify(ctx, domain.SuccessToast(g.name, "Primary image updated"))
	return nil
}

func (g *Gallery) notify(ctx context.Context, toast domain.Toast) {
	if g.notifier != nil {
		g.notifier.Notify(ctx, toast)
	}
}
