package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
)

// ResourceClient is the single REST adapter every entity service instantiates. It speaks
// the DRF conventions: trailing slashes, PATCH updates, paginated list envelopes.
type ResourceClient[T domain.Entity] struct {
	rest       *restclient.Client
	name       string
	base       string
	createPath string
	logger     *slog.Logger
}

type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	createPath string
	logger     *slog.Logger
}

// WithCreatePath posts creations to a dedicated endpoint (users register elsewhere).
func WithCreatePath(path string) ResourceOption {
	return func(o *resourceOptions) { o.createPath = path }
}

// WithResourceLogger overrides the logger inherited from the REST client.
func WithResourceLogger(logger *slog.Logger) ResourceOption {
	return func(o *resourceOptions) { o.logger = logger }
}

func NewResourceClient[T domain.Entity](rest *restclient.Client, name, base string, opts ...ResourceOption) *ResourceClient[T] {
	options := resourceOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	normalizedBase := collectionPath(base)
	createPath := normalizedBase
	if strings.TrimSpace(options.createPath) != "" {
		createPath = collectionPath(options.createPath)
	}
	logger := options.logger
	if logger == nil && rest != nil {
		logger = rest.Logger()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceClient[T]{
		rest:       rest,
		name:       name,
		base:       normalizedBase,
		createPath: createPath,
		logger:     logger.With(slog.String("component", "resource"), slog.String("entity", name)),
	}
}

func (c *ResourceClient[T]) Name() string { return c.name }
func (c *ResourceClient[T]) Path() string { return c.base }

func (c *ResourceClient[T]) GetAll(ctx context.Context, query domain.ListQuery) (domain.Page[T], error) {
	values := query.Values()
	c.logger.Debug("resource list fetch", slog.String("query", values.Encode()))

	var raw json.RawMessage
	if err := c.rest.DoJSON(ctx, http.MethodGet, c.base, values, nil, &raw); err != nil {
		return domain.Page[T]{}, err
	}
	page, err := decodePage[T](raw)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("decode %s page: %w", c.name, err)
	}
	return page, nil
}

func (c *ResourceClient[T]) GetByID(ctx context.Context, id string) (T, error) {
	var out T
	path, err := c.detailPath(id)
	if err != nil {
		return out, err
	}
	err = c.rest.DoJSON(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

func (c *ResourceClient[T]) Create(ctx context.Context, payload any) (T, error) {
	var out T
	c.logger.Info("resource create")
	err := c.rest.DoJSON(ctx, http.MethodPost, c.createPath, nil, payload, &out)
	return out, err
}

func (c *ResourceClient[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	var out T
	path, err := c.detailPath(id)
	if err != nil {
		return out, err
	}
	c.logger.Info("resource update", slog.String("resourceId", id))
	err = c.rest.DoJSON(ctx, http.MethodPatch, path, nil, patch, &out)
	return out, err
}

func (c *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	path, err := c.detailPath(id)
	if err != nil {
		return err
	}
	c.logger.Info("resource delete", slog.String("resourceId", id))
	return c.rest.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *ResourceClient[T]) detailPath(id string) (string, error) {
	identifier := strings.TrimSpace(id)
	if identifier == "" {
		return "", fmt.Errorf("%w: missing %s id", restclient.ErrNotFound, c.name)
	}
	return c.base + url.PathEscape(identifier) + "/", nil
}

func collectionPath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	return "/" + trimmed + "/"
}

// decodePage accepts the paginated envelope and, for unpaginated endpoints, a bare array.
func decodePage[T any](raw json.RawMessage) (domain.Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.Page[T]{Results: []T{}}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return domain.Page[T]{}, err
		}
		return domain.Page[T]{Count: len(items), Results: items}, nil
	}
	var page domain.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return domain.Page[T]{}, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page, nil
}
