package domain

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Entity is implemented by every backend record surfaced through a REST resource.
type Entity interface {
	EntityID() string
}

// Page is the DRF pagination envelope returned by every list endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []T     `json:"results"`
}

// ListQuery carries the page number, free-text search and extra filters of a list request.
type ListQuery struct {
	Page    int
	Search  string
	Filters map[string]string
}

// Normalize returns a sanitized copy: page defaults to 1, search is trimmed, blank filters are dropped.
func (q ListQuery) Normalize() ListQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	normalized.Search = strings.TrimSpace(normalized.Search)
	normalized.Filters = sanitizeFilters(normalized.Filters)
	return normalized
}

// Values encodes the query with the backend's parameter names.
func (q ListQuery) Values() url.Values {
	normalized := q.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	if normalized.Search != "" {
		values.Set("search", normalized.Search)
	}
	for key, value := range normalized.Filters {
		values.Set(key, value)
	}
	return values
}

// CanonicalKey builds a stable cache key for the query.
func (q ListQuery) CanonicalKey() string {
	normalized := q.Normalize()
	var builder strings.Builder
	builder.WriteString("page=")
	builder.WriteString(strconv.Itoa(normalized.Page))
	builder.WriteString("&search=")
	builder.WriteString(strings.ToLower(normalized.Search))
	if len(normalized.Filters) > 0 {
		keys := make([]string, 0, len(normalized.Filters))
		for key := range normalized.Filters {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		builder.WriteString("&filters=")
		for index, key := range keys {
			if index > 0 {
				builder.WriteString(";")
			}
			builder.WriteString(key)
			builder.WriteString("=")
			builder.WriteString(normalized.Filters[key])
		}
	}
	return builder.String()
}

func sanitizeFilters(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	sanitized := make(map[string]string, len(filters))
	for key, value := range filters {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		sanitized[trimmedKey] = trimmedValue
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}
