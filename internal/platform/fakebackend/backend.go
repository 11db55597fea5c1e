// Package fakebackend is an in-memory stand-in for the booking REST API, speaking the same
// DRF conventions (token auth, paginated lists, PATCH merges). Tests and local demos point
// the REST client at it.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/shared/auth"
)

const (
	loginPath    = "/api/users/users/login/"
	logoutPath   = "/api/users/users/logout/"
	mePath       = "/api/users/users/me/"
	registerPath = "/api/users/users/register/"
	usersPath    = "/api/users/users/"
)

// Call records one request the backend served.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

type failure struct {
	method string
	prefix string
	status int
	body   string
}

type account struct {
	password string
	user     map[string]any
}

type Backend struct {
	PageSize int

	mu          sync.Mutex
	collections map[string][]map[string]any
	failures    []failure
	calls       []Call
	accounts    map[string]account
	tokens      map[string]string
	enforceAuth bool
	now         func() time.Time

	echo   *echo.Echo
	server *httptest.Server
}

func New() *Backend {
	b := &Backend{
		PageSize:    10,
		collections: map[string][]map[string]any{},
		accounts:    map[string]account{},
		tokens:      map[string]string{},
		now:         time.Now,
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Any("/*", b.handle)
	b.echo = e
	return b
}

// Start serves the backend on a local port and returns its base URL.
func (b *Backend) Start() string {
	b.server = httptest.NewServer(b.echo)
	return b.server.URL
}

func (b *Backend) Close() {
	if b.server != nil {
		b.server.Close()
	}
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) { b.echo.ServeHTTP(w, r) }

// EnforceAuth makes every non-login call require a token issued by Login or IssueToken.
func (b *Backend) EnforceAuth() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enforceAuth = true
}

func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.tokens[token] = email
	return token
}

// TokenActive reports whether token was issued and not yet logged out or revoked.
func (b *Backend) TokenActive(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[token]
	return ok
}

func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = map[string]string{}
}

func (b *Backend) AddAccount(email, password string, user map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if user == nil {
		user = map[string]any{}
	}
	user["email"] = email
	if _, ok := user["id"]; !ok {
		user["id"] = uuid.NewString()
	}
	b.accounts[strings.ToLower(email)] = account{password: password, user: user}
}

// Seed stores records under a collection path, assigning ids and timestamps when absent.
func (b *Backend) Seed(path string, records ...map[string]any) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := collectionKey(path)
	stored := make([]map[string]any, 0, len(records))
	for _, record := range records {
		stored = append(stored, b.insertLocked(key, record))
	}
	return cloneRecords(stored)
}

func (b *Backend) Records(path string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneRecords(b.collections[collectionKey(path)])
}

// FailNext makes the next request matching method and path prefix answer status with body.
func (b *Backend) FailNext(method, prefix string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, prefix: prefix, status: status, body: body})
}

// Calls returns the recorded requests matching method (empty = any) and path prefix.
func (b *Backend) Calls(method, prefix string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []Call
	for _, call := range b.calls {
		if method != "" && call.Method != method {
			continue
		}
		if !strings.HasPrefix(call.Path, prefix) {
			continue
		}
		matched = append(matched, call)
	}
	return matched
}

func (b *Backend) handle(c echo.Context) error {
	req := c.Request()
	path := req.URL.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	body := map[string]any{}
	if req.Body != nil && req.ContentLength != 0 {
		_ = json.NewDecoder(req.Body).Decode(&body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, Call{Method: req.Method, Path: path, Query: req.URL.Query(), Body: body})
	if injected, ok := b.takeFailureLocked(req.Method, path); ok {
		b.mu.Unlock()
		return c.Blob(injected.status, echo.MIMEApplicationJSON, []byte(injected.body))
	}
	defer b.mu.Unlock()

	if path == loginPath && req.Method == http.MethodPost {
		return b.loginLocked(c, body)
	}

	token := auth.ExtractToken(req)
	if b.enforceAuth {
		if _, ok := b.tokens[token]; !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
		}
	}

	switch {
	case path == logoutPath && req.Method == http.MethodPost:
		delete(b.tokens, token)
		return c.JSON(http.StatusOK, map[string]string{"detail": "Successfully logged out."})
	case path == mePath && req.Method == http.MethodGet:
		return b.meLocked(c, token)
	case path == registerPath && req.Method == http.MethodPost:
		delete(body, "password")
		return c.JSON(http.StatusCreated, b.insertLocked(usersPath, body))
	}

	if _, ok := b.collections[path]; ok || req.Method == http.MethodPost {
		return b.collectionLocked(c, path, body)
	}
	parent, id := splitDetail(path)
	if parent != "" {
		if _, ok := b.collections[parent]; ok {
			return b.detailLocked(c, parent, id, body)
		}
	}
	if req.Method == http.MethodGet && !looksLikeID(id) {
		return b.collectionLocked(c, path, body)
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *Backend) takeFailureLocked(method, path string) (failure, bool) {
	for index, candidate := range b.failures {
		if candidate.method == method && strings.HasPrefix(path, candidate.prefix) {
			b.failures = append(b.failures[:index], b.failures[index+1:]...)
			return candidate, true
		}
	}
	return failure{}, false
}

func (b *Backend) loginLocked(c echo.Context, body map[string]any) error {
	email := strings.ToLower(fmt.Sprint(body["email"]))
	acct, ok := b.accounts[email]
	if !ok || acct.password != fmt.Sprint(body["password"]) {
		return c.JSON(http.StatusBadRequest, map[string]any{"non_field_errors": []string{"Unable to log in with provided credentials."}})
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.tokens[token] = email
	return c.JSON(http.StatusOK, map[string]any{
		"user":          acct.user,
		"token":         token,
		"session_token": uuid.NewString(),
	})
}

func (b *Backend) meLocked(c echo.Context, token string) error {
	email, ok := b.tokens[token]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
	}
	return c.JSON(http.StatusOK, b.accounts[email].user)
}

func (b *Backend) collectionLocked(c echo.Context, path string, body map[string]any) error {
	switch c.Request().Method {
	case http.MethodGet:
		return c.JSON(http.StatusOK, b.pageLocked(path, c.Request().URL))
	case http.MethodPost:
		return c.JSON(http.StatusCreated, b.insertLocked(path, body))
	default:
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{"detail": "Method not allowed."})
	}
}

func (b *Backend) detailLocked(c echo.Context, collection, id string, body map[string]any) error {
	records := b.collections[collection]
	index := -1
	for i, record := range records {
		if fmt.Sprint(record["id"]) == id {
			index = i
			break
		}
	}
	if index < 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
	}

	switch c.Request().Method {
	case http.MethodGet:
		return c.JSON(http.StatusOK, records[index])
	case http.MethodPatch, http.MethodPut:
		for key, value := range body {
			if key == "id" {
				continue
			}
			records[index][key] = value
		}
		records[index]["updated_at"] = b.now().UTC().Format(time.RFC3339Nano)
		return c.JSON(http.StatusOK, records[index])
	case http.MethodDelete:
		b.collections[collection] = append(records[:index], records[index+1:]...)
		return c.NoContent(http.StatusNoContent)
	default:
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{"detail": "Method not allowed."})
	}
}

func (b *Backend) insertLocked(collection string, record map[string]any) map[string]any {
	stored := make(map[string]any, len(record)+2)
	for key, value := range record {
		stored[key] = value
	}
	if id, ok := stored["id"]; !ok || fmt.Sprint(id) == "" {
		stored["id"] = uuid.NewString()
	}
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = b.now().UTC().Format(time.RFC3339Nano)
	}
	b.collections[collection] = append(b.collections[collection], stored)
	return stored
}

func (b *Backend) pageLocked(path string, target *url.URL) map[string]any {
	query := target.Query()
	search := strings.ToLower(strings.TrimSpace(query.Get("search")))
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size := b.PageSize
	if size <= 0 {
		size = 10
	}

	matches := make([]map[string]any, 0)
	for _, record := range b.collections[path] {
		if search != "" && !matchesSearch(record, search) {
			continue
		}
		if !matchesFilters(record, query) {
			continue
		}
		matches = append(matches, record)
	}

	start := (page - 1) * size
	if start > len(matches) {
		start = len(matches)
	}
	end := start + size
	if end > len(matches) {
		end = len(matches)
	}

	var next, previous any
	if end < len(matches) {
		next = pageURL(target, page+1)
	}
	if page > 1 {
		previous = pageURL(target, page-1)
	}
	return map[string]any{
		"count":    len(matches),
		"next":     next,
		"previous": previous,
		"results":  matches[start:end],
	}
}

func matchesSearch(record map[string]any, term string) bool {
	for _, value := range record {
		if s, ok := value.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func matchesFilters(record map[string]any, query url.Values) bool {
	for key := range query {
		switch key {
		case "page", "search", "page_size", "ordering":
			continue
		}
		field := strings.TrimSuffix(key, "_id")
		value, ok := record[field]
		if !ok {
			value, ok = record[key]
		}
		if !ok || fmt.Sprint(value) != query.Get(key) {
			return false
		}
	}
	return true
}

func pageURL(target *url.URL, page int) string {
	copied := *target
	values := copied.Query()
	values.Set("page", strconv.Itoa(page))
	copied.RawQuery = values.Encode()
	return copied.String()
}

func splitDetail(path string) (string, string) {
	trimmed := strings.TrimSuffix(path, "/")
	index := strings.LastIndex(trimmed, "/")
	if index <= 0 {
		return "", ""
	}
	return trimmed[:index+1], trimmed[index+1:]
}

func looksLikeID(segment string) bool {
	if segment == "" {
		return false
	}
	if _, err := uuid.Parse(segment); err == nil {
		return true
	}
	_, err := strconv.Atoi(segment)
	return err == nil
}

func collectionKey(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/") + "/"
}

func cloneRecords(records []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		copied := make(map[string]any, len(record))
		for key, value := range record {
			copied[key] = value
		}
		out = append(out, copied)
	}
	return out
}
