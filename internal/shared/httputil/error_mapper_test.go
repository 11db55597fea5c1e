package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

var (
	errMissing  = errors.New("missing")
	errConflict = errors.New("conflict")
)

type detailedError struct {
	kind   error
	detail string
}

func (e detailedError) Error() string { return e.detail }
func (e detailedError) Unwrap() error { return e.kind }

func TestErrorMapperMap(t *testing.T) {
	t.Parallel()

	mapper := NewErrorMapper().
		WithMapping(errMissing, http.StatusNotFound, "not found").
		WithMapping(errConflict, http.StatusConflict, "conflict").
		WithDefault(http.StatusBadGateway, "backend failure")

	cases := map[string]struct {
		err     error
		status  int
		message string
	}{
		"nil":      {err: nil, status: http.StatusOK, message: ""},
		"wrapped":  {err: fmt.Errorf("load: %w", errMissing), status: http.StatusNotFound, message: "not found"},
		"deadline": {err: fmt.Errorf("x: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout, message: "request timeout"},
		"canceled": {err: context.Canceled, status: http.StatusServiceUnavailable, message: "request cancelled"},
		"unknown":  {err: errors.New("boom"), status: http.StatusBadGateway, message: "backend failure"},
	}

	for name, tc := range cases {
		info := mapper.Map(tc.err)
		if info.Status != tc.status || info.Message != tc.message {
			t.Fatalf("%s: expected %d %q, got %d %q", name, tc.status, tc.message, info.Status, info.Message)
		}
	}
}

func TestErrorMapperResolvesDetail(t *testing.T) {
	t.Parallel()

	mapper := NewErrorMapper().
		WithMapping(errConflict, http.StatusConflict, "conflict").
		WithMessageResolver(func(err error, fallback string) string {
			var detailed detailedError
			if errors.As(err, &detailed) && detailed.detail != "" {
				return detailed.detail
			}
			return fallback
		})

	info := mapper.Map(detailedError{kind: errConflict, detail: "in use"})
	if info.Status != http.StatusConflict || info.Message != "in use" {
		t.Fatalf("unexpected mapping %+v", info)
	}
}

func TestErrorMapperRespondWritesJSON(t *testing.T) {
	t.Parallel()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	mapper := NewErrorMapper().WithMapping(errMissing, http.StatusNotFound, "not found")
	if err := mapper.Respond(c, errMissing); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"not found"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
