package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/infrastructure"
)

func (h *Handler) binding(c echo.Context) (*infrastructure.Binding, error) {
	binding, ok := h.registry.Binding(c.Param("entity"))
	if !ok {
		return nil, errUnknownEntity
	}
	return binding, nil
}

// list answers with the entity's list state after fetching for the requested search term and
// page. A fetch superseded by another request still answers with the latest state.
func (h *Handler) list(c echo.Context) error {
	binding, err := h.binding(c)
	if err != nil {
		return h.respondError(c, err)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	list := binding.List
	page, _ := strconv.Atoi(c.QueryParam("page"))
	switch {
	case c.QueryParams().Has("search"):
		err = list.Load(ctx, strings.TrimSpace(c.QueryParam("search")), page)
	case page > 0:
		err = list.SetPage(ctx, page)
	default:
		err = list.Refresh(ctx)
	}
	if err != nil && !errors.Is(err, usecase.ErrSuperseded) {
		return h.respondError(c, err)
	}
	return respond(c, http.StatusOK, list.Snapshot())
}

func (h *Handler) detail(c echo.Context) error {
	binding, err := h.binding(c)
	if err != nil {
		return h.respondError(c, err)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	record, err := binding.List.Lookup(ctx, c.Param("id"))
	var redirect *usecase.RedirectError
	if errors.As(err, &redirect) {
		c.Response().Header().Set(echo.HeaderLocation, redirect.Location)
		info := h.errors.Map(err)
		return c.JSON(http.StatusSeeOther, envelope{Error: info.Message, Redirect: redirect.Location, Toasts: toasts(c)})
	}
	if err != nil {
		return h.respondError(c, err)
	}
	return respond(c, http.StatusOK, record)
}

func (h *Handler) create(c echo.Context) error {
	return h.submit(c, "")
}

func (h *Handler) update(c echo.Context) error {
	return h.submit(c, c.Param("id"))
}

// submit runs the entity form with the request body as field edits. An empty id creates.
func (h *Handler) submit(c echo.Context, id string) error {
	binding, err := h.binding(c)
	if err != nil {
		return h.respondError(c, err)
	}
	fields, err := decodeFields(c.Request().Body)
	if err != nil {
		return h.respondError(c, err)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	form, err := binding.NewForm(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	for name, value := range fields {
		form.Set(name, value)
	}
	saved, err := form.SubmitAny(ctx)
	if err != nil {
		return h.respondError(c, err)
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	return respond(c, status, saved)
}

func (h *Handler) remove(c echo.Context) error {
	binding, err := h.binding(c)
	if err != nil {
		return h.respondError(c, err)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := binding.List.Remove(ctx, c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return respond(c, http.StatusOK, binding.List.Snapshot())
}

// stats refreshes the current page and aggregates it. Figures are page-local; the Sampled
// flag tells when the backend holds more records than the page.
func (h *Handler) stats(c echo.Context) error {
	binding, err := h.binding(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if _, ok := binding.List.StatsSnapshot(); !ok {
		return h.respondError(c, errNoStats)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := binding.List.Refresh(ctx); err != nil && !errors.Is(err, usecase.ErrSuperseded) {
		return h.respondError(c, err)
	}
	stats, _ := binding.List.StatsSnapshot()
	return respond(c, http.StatusOK, stats)
}

func decodeFields(body io.Reader) (map[string]any, error) {
	fields := map[string]any{}
	if body == nil {
		return fields, nil
	}
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		return nil, errInvalidBody
	}
	return fields, nil
}
