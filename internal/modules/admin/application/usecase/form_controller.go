package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/domain"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/logging"
	"nomadeAdmin/internal/shared/normalization"
)

// ErrSubmitInProgress is returned when Submit is called while a previous submit is running.
var ErrSubmitInProgress = errors.New("form submit already in progress")

// readOnlyFields are server-managed and never sent by schemaless forms.
var readOnlyFields = map[string]struct{}{"id": {}, "created_at": {}, "updated_at": {}}

type FormDeps[T catalog.Entity] struct {
	Create     func(ctx context.Context, payload map[string]any) (T, error)
	Update     func(ctx context.Context, id string, patch map[string]any) (T, error)
	References map[string]port.OptionLoader
	// OnSuccess runs after a successful write, typically closing the dialog and refreshing the list.
	OnSuccess func(ctx context.Context, saved T)
}

type FormOptions struct {
	Notifier port.Notifier
	Logger   *slog.Logger
	// Cache, when set, shares reference option sets across forms.
	Cache *ReferenceCache
}

// FormController owns one create or edit form. A nil initial record means create.
type FormController[T catalog.Entity] struct {
	schema   Schema
	initial  *T
	deps     FormDeps[T]
	notifier port.Notifier
	logger   *slog.Logger
	cache    *ReferenceCache

	mu         sync.Mutex
	original   map[string]any
	draft      map[string]any
	references map[string][]port.Option
	errors     FieldErrors
	submitting bool
}

func NewFormController[T catalog.Entity](schema Schema, initial *T, deps FormDeps[T], opts FormOptions) (*FormController[T], error) {
	controller := &FormController[T]{
		schema:     schema,
		initial:    initial,
		deps:       deps,
		notifier:   opts.Notifier,
		logger:     logging.Component(opts.Logger, "form").With(slog.String("entity", schema.Entity)),
		cache:      opts.Cache,
		references: map[string][]port.Option{},
	}

	if initial == nil {
		controller.original = map[string]any{}
		controller.draft = schema.Defaults()
		return controller, nil
	}

	projected, err := normalization.Project(*initial)
	if err != nil {
		return nil, fmt.Errorf("seed %s form: %w", schema.Entity, err)
	}
	if len(schema.Fields) == 0 {
		controller.original = projected
		controller.draft = cloneDraft(projected)
		return controller, nil
	}
	seed := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.WriteOnly {
			continue
		}
		if value, ok := projected[field.Name]; ok {
			seed[field.Name] = value
		}
	}
	schema.Coerce(seed)
	controller.original = seed
	controller.draft = cloneDraft(seed)
	return controller, nil
}

// Creating reports whether the form creates a new record.
func (f *FormController[T]) Creating() bool { return f.initial == nil }

func (f *FormController[T]) Schema() Schema { return f.schema }

// Set records operator input for field.
func (f *FormController[T]) Set(field string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft[field] = value
	delete(f.errors, field)
}

// Draft returns a copy of the current draft.
func (f *FormController[T]) Draft() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneDraft(f.draft)
}

// Errors returns the field errors of the last rejected submit.
func (f *FormController[T]) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := make(FieldErrors, len(f.errors))
	for name, message := range f.errors {
		errs[name] = message
	}
	return errs
}

// LoadReferences fetches every configured option set concurrently. A failing set is logged and
// left empty; it never fails the form.
func (f *FormController[T]) LoadReferences(ctx context.Context) map[string][]port.Option {
	var (
		mu     sync.Mutex
		loaded = make(map[string][]port.Option, len(f.deps.References))
	)
	group, groupCtx := errgroup.WithContext(ctx)
	for name, loader := range f.deps.References {
		group.Go(func() error {
			var (
				options []port.Option
				err     error
			)
			if f.cache != nil {
				options, err = f.cache.Get(groupCtx, name, loader)
			} else {
				options, err = loader(groupCtx)
			}
			if err != nil {
				f.logger.Warn("reference options unavailable", slog.String("reference", name), slog.Any("error", err))
				options = []port.Option{}
			}
			mu.Lock()
			loaded[name] = options
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	f.mu.Lock()
	for name, options := range loaded {
		f.references[name] = options
	}
	f.mu.Unlock()
	return loaded
}

// References returns the option sets loaded so far.
func (f *FormController[T]) References() map[string][]port.Option {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make(map[string][]port.Option, len(f.references))
	for name, options := range f.references {
		copied[name] = append([]port.Option(nil), options...)
	}
	return copied
}

// Submit validates the draft and performs exactly one write: update with the changed fields
// when editing, create with the full payload otherwise.
func (f *FormController[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return zero, ErrSubmitInProgress
	}
	draft := cloneDraft(f.draft)
	f.schema.Coerce(draft)
	if err := f.schema.Validate(draft, f.Creating()); err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			f.errors = validation.Fields
		}
		f.mu.Unlock()
		f.logger.Debug("form rejected", slog.Any("error", err))
		return zero, err
	}
	f.errors = nil
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	var (
		saved  T
		err    error
		action string
	)
	if f.initial != nil {
		action = "updated"
		if f.deps.Update == nil {
			return zero, ErrUnsupported
		}
		id := (*f.initial).EntityID()
		patch := f.patch(draft)
		f.logger.Info("updating record", slog.String("id", id), slog.Int("fields", len(patch)))
		saved, err = f.deps.Update(ctx, id, patch)
	} else {
		action = "created"
		if f.deps.Create == nil {
			return zero, ErrUnsupported
		}
		payload := f.payload(draft)
		f.logger.Info("creating record", slog.Int("fields", len(payload)))
		saved, err = f.deps.Create(ctx, payload)
	}

	if err != nil {
		f.logger.Warn("form submit failed", slog.String("action", action), slog.Any("error", err))
		f.notify(ctx, domain.ErrorToast(f.schema.Entity, restclient.UserMessage(err, "Unable to save "+singular(f.schema.Entity))))
		return zero, err
	}

	f.mu.Lock()
	if seeded, projectErr := normalization.Project(saved); projectErr == nil {
		f.schema.Coerce(seeded)
		f.original = seeded
	}
	f.mu.Unlock()

	f.notify(ctx, domain.SuccessToast(f.schema.Entity, capitalize(singular(f.schema.Entity))+" "+action))
	if f.deps.OnSuccess != nil {
		f.deps.OnSuccess(ctx, saved)
	}
	return saved, nil
}

// SubmitAny is Submit for type-erased callers.
func (f *FormController[T]) SubmitAny(ctx context.Context) (any, error) {
	return f.Submit(ctx)
}

// payload keeps the schema fields of draft that carry a value.
func (f *FormController[T]) payload(draft map[string]any) map[string]any {
	payload := map[string]any{}
	for _, field := range f.fields(draft) {
		value, ok := draft[field.Name]
		if !ok || normalization.IsBlank(value) {
			continue
		}
		payload[field.Name] = value
	}
	return payload
}

// patch keeps the schema fields whose value differs from the seeded record.
func (f *FormController[T]) patch(draft map[string]any) map[string]any {
	patch := map[string]any{}
	for _, field := range f.fields(draft) {
		value, ok := draft[field.Name]
		if !ok {
			continue
		}
		if field.WriteOnly {
			if !normalization.IsBlank(value) {
				patch[field.Name] = value
			}
			continue
		}
		if sameValue(field.Kind, f.original[field.Name], value) {
			continue
		}
		patch[field.Name] = value
	}
	return patch
}

// fields returns the schema fields, or one text field per draft key for schemaless forms.
func (f *FormController[T]) fields(draft map[string]any) []Field {
	if len(f.schema.Fields) > 0 {
		return f.schema.Fields
	}
	names := make([]string, 0, len(draft))
	for name := range draft {
		if _, readOnly := readOnlyFields[name]; !readOnly {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Kind: KindText})
	}
	return fields
}

func (f *FormController[T]) notify(ctx context.Context, toast domain.Toast) {
	if f.notifier != nil {
		f.notifier.Notify(ctx, toast)
	}
}

func sameValue(kind FieldKind, before, after any) bool {
	if normalization.IsBlank(before) && normalization.IsBlank(after) {
		return true
	}
	if kind != KindNumber {
		return reflect.DeepEqual(before, after)
	}
	if left, ok := normalization.AsFloat64(before); ok {
		if right, ok := normalization.AsFloat64(after); ok {
			return left == right
		}
	}
	return reflect.DeepEqual(before, after)
}

func cloneDraft(source map[string]any) map[string]any {
	clone := make(map[string]any, len(source))
	for key, value := range source {
		clone[key] = value
	}
	return clone
}
