package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
)

const headerConfirm = "X-Confirm"

type galleryView struct {
	Images  []catalog.Image `json:"images"`
	Primary *catalog.Image  `json:"primary,omitempty"`
	Others  []catalog.Image `json:"others"`
}

func viewOf(gallery *usecase.Gallery) galleryView {
	view := galleryView{Images: gallery.Images(), Others: gallery.Others()}
	if primary, ok := gallery.Primary(); ok {
		view.Primary = &primary
	}
	return view
}

// requestConfirmer accepts when the request carries confirm=true or an X-Confirm: true header.
func requestConfirmer(c echo.Context) port.Confirmer {
	return port.ConfirmerFunc(func(context.Context, string) (bool, error) {
		raw := c.QueryParam("confirm")
		if raw == "" {
			raw = c.Request().Header.Get(headerConfirm)
		}
		accepted, _ := strconv.ParseBool(strings.TrimSpace(raw))
		return accepted, nil
	})
}

// loadGallery opens and loads the gallery addressed by the route.
func (h *Handler) loadGallery(ctx context.Context, c echo.Context) (*usecase.Gallery, error) {
	gallery, ok := h.registry.Gallery(c.Param("gallery"), c.Param("parentId"), requestConfirmer(c))
	if !ok {
		return nil, errUnknownGallery
	}
	if _, err := gallery.Load(ctx); err != nil {
		return nil, err
	}
	return gallery, nil
}

func (h *Handler) listImages(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	gallery, err := h.loadGallery(ctx, c)
	if err != nil {
		return h.respondError(c, err)
	}
	return respond(c, http.StatusOK, viewOf(gallery))
}

func (h *Handler) addImage(c echo.Context) error {
	var input catalog.NewImage
	if err := c.Bind(&input); err != nil {
		return h.respondError(c, errInvalidBody)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	gallery, err := h.loadGallery(ctx, c)
	if err != nil {
		return h.respondError(c, err)
	}
	if _, err := gallery.Add(ctx, input); err != nil {
		return h.respondError(c, err)
	}
	return respond(c, http.StatusCreated, viewOf(gallery))
}

func (h *Handler) deleteImage(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	gallery, err := h.loadGallery(ctx, c)
	if err != nil {
		return h.respondError(c, err)
	}
	deleted, err := gallery.Delete(ctx, c.Param("imageId"))
	if err != nil {
		return h.respondError(c, err)
	}
	if !deleted {
		return h.respondError(c, errConfirmationRequired)
	}
	return respond(c, http.StatusOK, viewOf(gallery))
}

func (h *Handler) promoteImage(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	gallery, err := h.loadGallery(ctx, c)
	if err != nil {
		return h.respondError(c, err)
	}
	if err := gallery.Promote(ctx, c.Param("imageId")); err != nil {
		info := h.errors.Map(err)
		return c.JSON(info.Status, envelope{Data: viewOf(gallery), Error: info.Message, Toasts: toasts(c)})
	}
	return respond(c, http.StatusOK, viewOf(gallery))
}
