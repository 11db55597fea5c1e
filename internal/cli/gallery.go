package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
)

var errUnknownGallery = errors.New("unknown gallery")

func (a *App) galleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage the images of a property, room, airport, ship, car or flight",
	}
	cmd.AddCommand(a.galleryListCommand(), a.galleryAddCommand(), a.galleryRemoveCommand(), a.galleryPromoteCommand())
	return cmd
}

func (a *App) openGallery(ctx context.Context, kind, parentID string, confirmer port.Confirmer) (*usecase.Gallery, error) {
	gallery, ok := a.registry.Gallery(kind, parentID, confirmer)
	if !ok {
		return nil, fmt.Errorf("%w %q (one of %s)", errUnknownGallery, kind, strings.Join(a.registry.GalleryNames(), ", "))
	}
	if _, err := gallery.Load(ctx); err != nil {
		return nil, err
	}
	return gallery, nil
}

func (a *App) printGallery(gallery *usecase.Gallery) {
	primaryID := ""
	if primary, ok := gallery.Primary(); ok {
		primaryID = primary.ID
	}
	printImages(a.out, gallery.Images(), primaryID)
}

func (a *App) galleryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <gallery> <parent-id>",
		Short: "Show the images in display order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.openGallery(cmd.Context(), args[0], args[1], nil)
			if err != nil {
				return err
			}
			a.printGallery(gallery)
			return nil
		},
	}
}

func (a *App) galleryAddCommand() *cobra.Command {
	var input catalog.NewImage
	cmd := &cobra.Command{
		Use:   "add <gallery> <parent-id> <image-url>",
		Short: "Append an image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.openGallery(cmd.Context(), args[0], args[1], nil)
			if err != nil {
				return err
			}
			input.ImageURL = args[2]
			if _, err := gallery.Add(cmd.Context(), input); err != nil {
				return err
			}
			a.printGallery(gallery)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.ImageType, "type", "", "image type")
	cmd.Flags().StringVar(&input.AltText, "alt", "", "alternative text")
	cmd.Flags().StringVar(&input.Caption, "caption", "", "caption")
	return cmd
}

func (a *App) galleryRemoveCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <gallery> <parent-id> <image-id>",
		Short: "Delete an image after confirmation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.openGallery(cmd.Context(), args[0], args[1], a.confirmer(yes))
			if err != nil {
				return err
			}
			deleted, err := gallery.Delete(cmd.Context(), args[2])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(a.out, "Aborted")
				return nil
			}
			a.printGallery(gallery)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func (a *App) galleryPromoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <gallery> <parent-id> <image-id>",
		Short: "Make an image the primary one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.openGallery(cmd.Context(), args[0], args[1], nil)
			if err != nil {
				return err
			}
			err = gallery.Promote(cmd.Context(), args[2])
			a.printGallery(gallery)
			return err
		},
	}
}
