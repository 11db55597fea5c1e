package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/domain"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/logging"
)

// Ordering decides which of several overlapping fetches ends up in the list state.
type Ordering string

const (
	// OrderLastIssued cancels superseded fetches and drops their responses.
	OrderLastIssued Ordering = "last-issued"
	// OrderLastResolved applies every response in resolution order.
	OrderLastResolved Ordering = "last-resolved"
)

var (
	// ErrSuperseded is returned by a fetch whose result was dropped because a newer one was issued.
	ErrSuperseded = errors.New("list fetch superseded")
	// ErrUnsupported is returned when the controller was built without the needed collaborator.
	ErrUnsupported = errors.New("operation not supported for entity")
)

// RedirectError reports that the caller should navigate to Location, typically the parent list
// after a detail lookup hit a missing record.
type RedirectError struct {
	Location string
	Cause    error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s: %v", e.Location, e.Cause)
}

func (e *RedirectError) Unwrap() error { return e.Cause }

// ListDeps are the collaborators of a list controller. Only Fetch is mandatory.
type ListDeps[T any] struct {
	Fetch  port.PageFetcher[T]
	Get    func(ctx context.Context, id string) (T, error)
	Delete func(ctx context.Context, id string) error
	Stats  *StatDefinition[T]
}

type ListOptions struct {
	Ordering Ordering
	Debounce time.Duration
	Notifier port.Notifier
	Logger   *slog.Logger
	// ListPath is reported in redirects after a missing detail lookup.
	ListPath string
}

// ListController owns the list page lifecycle of one entity: current page, search term and
// loading flag. It is safe for concurrent use.
type ListController[T any] struct {
	entity   string
	deps     ListDeps[T]
	ordering Ordering
	debounce time.Duration
	notifier port.Notifier
	logger   *slog.Logger
	listPath string

	mu        sync.Mutex
	state     domain.ListState[T]
	issued    uint64
	inflight  int
	cancel    context.CancelFunc
	timer     *time.Timer
	listeners map[int]func(domain.ListState[T])
	nextID    int
}

func NewListController[T any](entity string, deps ListDeps[T], opts ListOptions) *ListController[T] {
	if opts.Ordering == "" {
		opts.Ordering = OrderLastIssued
	}
	if opts.ListPath == "" {
		opts.ListPath = "/admin/api/" + entity
	}
	logger := logging.Component(opts.Logger, "list").With(slog.String("entity", entity))
	return &ListController[T]{
		entity:    entity,
		deps:      deps,
		ordering:  opts.Ordering,
		debounce:  opts.Debounce,
		notifier:  opts.Notifier,
		logger:    logger,
		listPath:  opts.ListPath,
		state:     domain.ListState[T]{Entity: entity, Items: []T{}, Page: 1},
		listeners: map[int]func(domain.ListState[T]){},
	}
}

func (c *ListController[T]) Entity() string { return c.entity }

// State returns a copy of the current list state.
func (c *ListController[T]) State() domain.ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ListController[T]) Snapshot() any { return c.State() }

// Mount issues the initial fetch with the empty search term.
func (c *ListController[T]) Mount(ctx context.Context) error {
	_, err := c.load(ctx, "", 1)
	return err
}

// SetSearchTerm records term and fetches page 1 for it. With a debounce configured the fetch
// is deferred and the call returns immediately.
func (c *ListController[T]) SetSearchTerm(ctx context.Context, term string) error {
	if c.debounce <= 0 {
		_, err := c.load(ctx, term, 1)
		return err
	}

	c.mu.Lock()
	c.state.SearchTerm = term
	if c.timer != nil {
		c.timer.Stop()
	}
	detached := context.WithoutCancel(ctx)
	c.timer = time.AfterFunc(c.debounce, func() {
		if _, err := c.load(detached, term, 1); err != nil && !errors.Is(err, ErrSuperseded) {
			c.logger.Debug("debounced fetch failed", slog.Any("error", err))
		}
	})
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return nil
}

// Refresh re-fetches the current page with the current search term.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	term, page := c.state.SearchTerm, c.state.Page
	c.mu.Unlock()
	_, err := c.load(ctx, term, page)
	return err
}

// SetPage fetches another page for the current search term. Pages below 1 load page 1.
func (c *ListController[T]) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	term := c.state.SearchTerm
	c.mu.Unlock()
	_, err := c.load(ctx, term, page)
	return err
}

// Load fetches page for term right away, bypassing and cancelling any pending debounced
// search. Request-scoped callers use it so the state they answer with is the one they asked for.
func (c *ListController[T]) Load(ctx context.Context, term string, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	_, err := c.load(ctx, term, page)
	return err
}

// Close stops a pending debounce timer and cancels the in-flight fetch.
func (c *ListController[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// OnChange registers fn to receive every new list state. The returned func unregisters it.
func (c *ListController[T]) OnChange(fn func(domain.ListState[T])) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Subscribe registers fn to receive list states as websocket messages.
func (c *ListController[T]) Subscribe(fn func(*domain.Message)) func() {
	return c.OnChange(func(state domain.ListState[T]) {
		fn(domain.ListMessage(state))
	})
}

func (c *ListController[T]) load(ctx context.Context, term string, pageNumber int) (domain.ListState[T], error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	if c.ordering == OrderLastIssued && c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	if c.ordering == OrderLastIssued {
		c.cancel = cancel
	}
	c.inflight++
	c.state.Loading = true
	c.state.SearchTerm = term
	pending := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(pending)

	started := time.Now()
	page, err := c.deps.Fetch(fetchCtx, pageNumber, term)
	cancel()

	c.mu.Lock()
	c.inflight--
	if c.ordering == OrderLastIssued && seq == c.issued {
		c.cancel = nil
	}
	stale := c.ordering == OrderLastIssued && seq != c.issued
	c.state.Loading = c.inflight > 0
	if stale {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Debug("stale list response dropped", slog.String("search", term), slog.Uint64("seq", seq))
		return snapshot, ErrSuperseded
	}
	if err != nil {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snapshot)
		c.logger.Warn("list fetch failed",
			slog.String("search", term),
			slog.Int("page", pageNumber),
			slog.Duration("elapsed", time.Since(started)),
			slog.Any("error", err),
		)
		c.notify(ctx, domain.ErrorToast(c.entity, "Unable to load "+c.entity))
		return snapshot, err
	}

	items := page.Results
	if items == nil {
		items = []T{}
	}
	c.state.Items = items
	c.state.Count = page.Count
	c.state.Page = pageNumber
	c.state.FetchedAt = time.Now().UTC()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("list fetched",
		slog.String("search", term),
		slog.Int("count", page.Count),
		slog.Int("items", len(items)),
		slog.Duration("elapsed", time.Since(started)),
	)
	c.emit(snapshot)
	return snapshot, nil
}

// Get loads one record. A missing record surfaces a toast and a RedirectError to the list.
func (c *ListController[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if c.deps.Get == nil {
		return zero, ErrUnsupported
	}
	item, err := c.deps.Get(ctx, id)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, restclient.ErrNotFound) {
		c.notify(ctx, domain.ErrorToast(c.entity, fmt.Sprintf("%s not found", singular(c.entity))))
		return zero, &RedirectError{Location: c.listPath, Cause: err}
	}
	c.notify(ctx, domain.ErrorToast(c.entity, restclient.DetailMessage(err, "Unable to load "+singular(c.entity))))
	return zero, err
}

func (c *ListController[T]) Lookup(ctx context.Context, id string) (any, error) {
	return c.Get(ctx, id)
}

// Delete removes a record. On failure the list is left untouched and the toast carries the
// backend detail when present; on success the list is refreshed.
func (c *ListController[T]) Delete(ctx context.Context, id string) error {
	if c.deps.Delete == nil {
		return ErrUnsupported
	}
	if err := c.deps.Delete(ctx, id); err != nil {
		c.logger.Warn("delete failed", slog.String("id", id), slog.Any("error", err))
		c.notify(ctx, domain.ErrorToast(c.entity, restclient.DetailMessage(err, "Unable to delete "+singular(c.entity))))
		return err
	}
	c.logger.Info("record deleted", slog.String("id", id))
	c.notify(ctx, domain.SuccessToast(c.entity, capitalize(singular(c.entity))+" deleted"))
	if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		c.logger.Debug("refresh after delete failed", slog.Any("error", err))
	}
	return nil
}

func (c *ListController[T]) Remove(ctx context.Context, id string) error { return c.Delete(ctx, id) }

// Stats aggregates the current page with the controller's stat definition.
func (c *ListController[T]) Stats() (Stats, bool) {
	if c.deps.Stats == nil {
		return Stats{}, false
	}
	state := c.State()
	return Aggregate(state.Items, state.Count, *c.deps.Stats), true
}

func (c *ListController[T]) StatsSnapshot() (any, bool) { return c.Stats() }

func (c *ListController[T]) snapshotLocked() domain.ListState[T] {
	snapshot := c.state
	snapshot.Items = append([]T(nil), c.state.Items...)
	return snapshot
}

func (c *ListController[T]) emit(state domain.ListState[T]) {
	c.mu.Lock()
	listeners := make([]func(domain.ListState[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
}

func (c *ListController[T]) notify(ctx context.Context, toast domain.Toast) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, toast)
}

// singular turns a canonical entity key into a readable noun ("car-companies" -> "car company").
func singular(entity string) string {
	name := strings.ReplaceAll(entity, "-", " ")
	switch {
	case strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "sses"), strings.HasSuffix(name, "xes"):
		return strings.TrimSuffix(name, "es")
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss"):
		return strings.TrimSuffix(name, "s")
	}
	return name
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
