package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadeAdmin/internal/modules/admin/domain"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/logging"
)

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []domain.Toast
}

func (n *recordingNotifier) Notify(_ context.Context, toast domain.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	messages := make([]string, 0, len(n.toasts))
	for _, toast := range n.toasts {
		messages = append(messages, toast.Message)
	}
	return messages
}

func (n *recordingNotifier) Last() domain.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return domain.Toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

// searchBackend answers fetches with the airlines whose code contains the search term.
type searchBackend struct {
	mu      sync.Mutex
	records []catalog.Airline
	calls   []string
	fail    error
}

func (b *searchBackend) fetch(_ context.Context, page int, search string) (catalog.Page[catalog.Airline], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, search)
	if b.fail != nil {
		return catalog.Page[catalog.Airline]{}, b.fail
	}
	results := []catalog.Airline{}
	for _, record := range b.records {
		if search == "" || record.Code == search {
			results = append(results, record)
		}
	}
	return catalog.Page[catalog.Airline]{Count: len(results) + 5, Results: results}, nil
}

func (b *searchBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func newAirlineController(backend *searchBackend, notifier *recordingNotifier, opts ListOptions) *ListController[catalog.Airline] {
	opts.Notifier = notifier
	opts.Logger = logging.Discard()
	return NewListController("airlines", ListDeps[catalog.Airline]{Fetch: backend.fetch}, opts)
}

func TestListControllerMountAndSearch(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}, {ID: "2", Code: "KL"}}}
	controller := newAirlineController(backend, &recordingNotifier{}, ListOptions{})

	require.NoError(t, controller.Mount(context.Background()))
	state := controller.State()
	assert.False(t, state.Loading)
	assert.Len(t, state.Items, 2)
	assert.LessOrEqual(t, len(state.Items), state.Count)

	require.NoError(t, controller.SetSearchTerm(context.Background(), "KL"))
	state = controller.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "2", state.Items[0].ID)
	assert.Equal(t, "KL", state.SearchTerm)
	assert.Equal(t, []string{"", "KL"}, backend.Calls())
}

func TestListControllerFailureKeepsItems(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}}}
	notifier := &recordingNotifier{}
	controller := newAirlineController(backend, notifier, ListOptions{})
	require.NoError(t, controller.Mount(context.Background()))

	backend.mu.Lock()
	backend.fail = &restclient.APIError{Kind: restclient.ErrTransport}
	backend.mu.Unlock()

	err := controller.SetSearchTerm(context.Background(), "AF")
	require.ErrorIs(t, err, restclient.ErrTransport)
	state := controller.State()
	assert.Len(t, state.Items, 1)
	assert.False(t, state.Loading)
	assert.Equal(t, "Unable to load airlines", notifier.Last().Message)
	assert.Equal(t, domain.ToastError, notifier.Last().Level)
}

func TestListControllerOrdering(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		ordering  Ordering
		wantErr   error
		wantItems string
	}{
		"last issued drops the superseded response": {ordering: OrderLastIssued, wantErr: ErrSuperseded, wantItems: "ab"},
		"last resolved applies the slow response":   {ordering: OrderLastResolved, wantItems: "a"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			release := make(chan struct{})
			started := make(chan struct{}, 1)
			fetch := func(ctx context.Context, _ int, search string) (catalog.Page[catalog.Airline], error) {
				page := catalog.Page[catalog.Airline]{Count: 1, Results: []catalog.Airline{{ID: search, Code: search}}}
				if search != "a" {
					return page, nil
				}
				started <- struct{}{}
				select {
				case <-release:
					return page, nil
				case <-ctx.Done():
					return catalog.Page[catalog.Airline]{}, ctx.Err()
				}
			}
			controller := NewListController("airlines", ListDeps[catalog.Airline]{Fetch: fetch}, ListOptions{Ordering: tc.ordering, Logger: logging.Discard()})

			firstErr := make(chan error, 1)
			go func() { firstErr <- controller.SetSearchTerm(context.Background(), "a") }()
			<-started

			require.NoError(t, controller.SetSearchTerm(context.Background(), "ab"))
			close(release)

			err := <-firstErr
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			state := controller.State()
			require.Len(t, state.Items, 1)
			assert.Equal(t, tc.wantItems, state.Items[0].ID)
			assert.Equal(t, "ab", state.SearchTerm)
			assert.False(t, state.Loading)
		})
	}
}

func TestListControllerDebounceCollapsesKeystrokes(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}}}
	controller := newAirlineController(backend, &recordingNotifier{}, ListOptions{Debounce: 30 * time.Millisecond})
	t.Cleanup(controller.Close)

	require.NoError(t, controller.SetSearchTerm(context.Background(), "A"))
	require.NoError(t, controller.SetSearchTerm(context.Background(), "AF"))

	require.Eventually(t, func() bool { return len(backend.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"AF"}, backend.Calls())
	require.Eventually(t, func() bool { return len(controller.State().Items) == 1 }, time.Second, 5*time.Millisecond)
}

func TestListControllerLoadIgnoresDebounce(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}, {ID: "2", Code: "KL"}}}
	controller := newAirlineController(backend, &recordingNotifier{}, ListOptions{Debounce: 30 * time.Millisecond})
	t.Cleanup(controller.Close)

	require.NoError(t, controller.SetSearchTerm(context.Background(), "K"))
	require.NoError(t, controller.Load(context.Background(), "AF", 2))

	state := controller.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "AF", state.Items[0].Code)
	assert.Equal(t, "AF", state.SearchTerm)
	assert.Equal(t, 2, state.Page)

	// the keystroke pending before Load must not fire afterwards
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"AF"}, backend.Calls())
	assert.Equal(t, "AF", controller.State().SearchTerm)
}

func TestListControllerDeleteConflictKeepsList(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}}}
	notifier := &recordingNotifier{}
	deleteCalls := 0
	controller := NewListController("car-availability", ListDeps[catalog.Airline]{
		Fetch: backend.fetch,
		Delete: func(context.Context, string) error {
			deleteCalls++
			return &restclient.APIError{Kind: restclient.ErrConflict, Status: http.StatusConflict, Detail: "in use"}
		},
	}, ListOptions{Notifier: notifier, Logger: logging.Discard()})
	require.NoError(t, controller.Mount(context.Background()))
	before := controller.State()

	err := controller.Delete(context.Background(), "1")
	require.ErrorIs(t, err, restclient.ErrConflict)
	assert.Equal(t, 1, deleteCalls)
	assert.Equal(t, before.Items, controller.State().Items)
	assert.Equal(t, "in use", notifier.Last().Message)
	assert.Len(t, backend.Calls(), 1, "failed delete must not refresh")
}

func TestListControllerDeleteSuccessRefreshes(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}}}
	notifier := &recordingNotifier{}
	controller := NewListController("airlines", ListDeps[catalog.Airline]{
		Fetch: backend.fetch,
		Delete: func(context.Context, string) error {
			backend.mu.Lock()
			backend.records = nil
			backend.mu.Unlock()
			return nil
		},
	}, ListOptions{Notifier: notifier, Logger: logging.Discard()})
	require.NoError(t, controller.Mount(context.Background()))

	require.NoError(t, controller.Delete(context.Background(), "1"))
	assert.Empty(t, controller.State().Items)
	assert.Equal(t, "Airline deleted", notifier.Last().Message)
}

func TestListControllerGetNotFoundRedirects(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	controller := NewListController("properties", ListDeps[catalog.Property]{
		Fetch: func(context.Context, int, string) (catalog.Page[catalog.Property], error) {
			return catalog.Page[catalog.Property]{}, nil
		},
		Get: func(context.Context, string) (catalog.Property, error) {
			return catalog.Property{}, &restclient.APIError{Kind: restclient.ErrNotFound, Status: http.StatusNotFound}
		},
	}, ListOptions{Notifier: notifier, Logger: logging.Discard()})

	_, err := controller.Get(context.Background(), "missing")
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, "/admin/api/properties", redirect.Location)
	assert.ErrorIs(t, err, restclient.ErrNotFound)
	assert.Equal(t, "property not found", notifier.Last().Message)
}

func TestListControllerListenersReceiveStates(t *testing.T) {
	t.Parallel()

	backend := &searchBackend{records: []catalog.Airline{{ID: "1", Code: "AF"}}}
	controller := newAirlineController(backend, &recordingNotifier{}, ListOptions{})

	var (
		mu       sync.Mutex
		messages []*domain.Message
	)
	unsubscribe := controller.Subscribe(func(msg *domain.Message) {
		mu.Lock()
		messages = append(messages, msg)
		mu.Unlock()
	})
	require.NoError(t, controller.Mount(context.Background()))
	unsubscribe()
	require.NoError(t, controller.Refresh(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, messages, 2, "loading state then resolved state")
	assert.Equal(t, "airlines.list", messages[1].Topic)
	assert.Equal(t, "true", messages[0].Metadata["loading"])
	assert.Equal(t, "false", messages[1].Metadata["loading"])
}

func TestSingular(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"accounts":         "account",
		"car-companies":    "car company",
		"addresses":        "address",
		"car-availability": "car availability",
		"activities":       "activity",
	}
	for input, want := range cases {
		if got := singular(input); got != want {
			t.Fatalf("singular(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestListControllerPagingKeepsSearchTerm(t *testing.T) {
	t.Parallel()

	type call struct {
		page   int
		search string
	}
	var calls []call
	controller := NewListController("airlines", ListDeps[catalog.Airline]{
		Fetch: func(_ context.Context, page int, search string) (catalog.Page[catalog.Airline], error) {
			calls = append(calls, call{page: page, search: search})
			return catalog.Page[catalog.Airline]{Count: 30, Results: []catalog.Airline{{ID: search}}}, nil
		},
	}, ListOptions{Logger: logging.Discard()})

	require.NoError(t, controller.SetSearchTerm(context.Background(), "air"))
	require.NoError(t, controller.SetPage(context.Background(), 3))
	require.NoError(t, controller.Refresh(context.Background()))
	require.NoError(t, controller.SetSearchTerm(context.Background(), "sky"))

	assert.Equal(t, []call{{1, "air"}, {3, "air"}, {3, "air"}, {1, "sky"}}, calls)
	assert.Equal(t, 1, controller.State().Page)
}
