package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/domain"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	catalogclient "nomadeAdmin/internal/modules/catalog/infrastructure"
	"nomadeAdmin/internal/shared/normalization"
)

// Binding wires one entity's list controller and form factory to its REST resource.
type Binding struct {
	Entity string
	List   port.ListPage
	// Schema is nil for entities edited as free-form records.
	Schema *usecase.Schema
	// NewForm opens a create form for an empty id, an edit form otherwise.
	NewForm func(ctx context.Context, id string) (port.Form, error)
	close   func()
}

type RegistryOptions struct {
	Ordering usecase.Ordering
	Debounce time.Duration
	Notifier port.Notifier
	Cache    *usecase.ReferenceCache
	Logger   *slog.Logger
}

// Registry holds the bindings of every entity and the gallery clients. It implements
// port.ListDirectory.
type Registry struct {
	services  *catalogclient.Services
	bindings  map[string]*Binding
	loaders   map[string]port.OptionLoader
	opts      RegistryOptions
	schemas   map[string]usecase.Schema
	galleries map[string]*catalogclient.ImageClient
}

func NewRegistry(services *catalogclient.Services, opts RegistryOptions) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &Registry{
		services:  services,
		bindings:  make(map[string]*Binding),
		opts:      opts,
		schemas:   usecase.Schemas(),
		galleries: services.Galleries,
	}
	r.loaders = map[string]port.OptionLoader{
		"users":               optionLoader(services.Users, func(u catalog.User) string { return u.Email }),
		"property-types":      optionLoader(services.PropertyTypes, namedLabel),
		"property-categories": optionLoader(services.PropertyCategories, namedLabel),
		"package-types":       optionLoader(services.PackageTypes, namedLabel),
		"airports": optionLoader(services.Airports, func(a catalog.Airport) string {
			return strings.TrimSpace(a.IATACode + " " + a.Name)
		}),
		"cars": optionLoader(services.Cars, func(c catalog.Car) string {
			return strings.TrimSpace(c.Make + " " + c.Model)
		}),
		"car-locations": optionLoader(services.CarLocations, func(l catalog.CarRentalLocation) string { return l.Name }),
	}

	accountStats := usecase.AccountStats()
	userStats := usecase.UserStats()

	bind(r, services.Users, &userStats)
	bind[catalog.Address](r, services.Addresses, nil)
	bind[catalog.PaymentMethod](r, services.PaymentMethods, nil)
	bind[catalog.Record](r, services.Profiles, nil)
	bind[catalog.Record](r, services.Sessions, nil)
	bind[catalog.Record](r, services.AuditLogs, nil)

	bind(r, services.Accounts, &accountStats)
	bind[catalog.OneKeyReward](r, services.Rewards, nil)
	bind[catalog.OneKeyPromotion](r, services.Promotions, nil)
	bind[catalog.Record](r, services.Points, nil)
	bind[catalog.OneKeyTransaction](r, services.Transactions, nil)

	bind[catalog.Property](r, services.Properties, nil)
	bind[catalog.NamedRecord](r, services.PropertyTypes, nil)
	bind[catalog.NamedRecord](r, services.PropertyCategories, nil)
	bind[catalog.Room](r, services.Rooms, nil)
	bind[catalog.NamedRecord](r, services.RoomTypes, nil)
	bind[catalog.Record](r, services.RoomAvailability, nil)

	bind[catalog.Car](r, services.Cars, nil)
	bind[catalog.CarRentalCompany](r, services.CarCompanies, nil)
	bind[catalog.CarRentalLocation](r, services.CarLocations, nil)
	bind[catalog.NamedRecord](r, services.CarCategories, nil)
	bind[catalog.CarAvailability](r, services.CarAvailability, nil)

	bind[catalog.Cruise](r, services.Cruises, nil)
	bind[catalog.CruiseLine](r, services.CruiseLines, nil)
	bind[catalog.CruiseShip](r, services.CruiseShips, nil)
	bind[catalog.Record](r, services.CruisePorts, nil)
	bind[catalog.Record](r, services.Cabins, nil)
	bind[catalog.Record](r, services.CabinTypes, nil)

	bind[catalog.Airline](r, services.Airlines, nil)
	bind[catalog.Airport](r, services.Airports, nil)
	bind[catalog.Flight](r, services.Flights, nil)
	bind[catalog.Record](r, services.FlightClasses, nil)
	bind[catalog.Record](r, services.FlightAvailability, nil)

	bind[catalog.Record](r, services.Activities, nil)
	bind[catalog.NamedRecord](r, services.ActivityCategories, nil)
	bind[catalog.Record](r, services.ActivitySchedules, nil)
	bind[catalog.Package](r, services.Packages, nil)
	bind[catalog.NamedRecord](r, services.PackageTypes, nil)
	bind[catalog.Record](r, services.PackageComponents, nil)

	return r
}

func bind[T catalog.Entity](r *Registry, client *catalogclient.ResourceClient[T], stats *usecase.StatDefinition[T]) {
	entity := client.Name()
	list := usecase.NewListController(entity, usecase.ListDeps[T]{
		Fetch: func(ctx context.Context, page int, search string) (catalog.Page[T], error) {
			return client.GetAll(ctx, catalog.ListQuery{Page: page, Search: search})
		},
		Get:    client.GetByID,
		Delete: client.Delete,
		Stats:  stats,
	}, usecase.ListOptions{
		Ordering: r.opts.Ordering,
		Debounce: r.opts.Debounce,
		Notifier: r.opts.Notifier,
		Logger:   r.opts.Logger,
	})

	binding := &Binding{Entity: entity, List: list, close: list.Close}
	schema, hasSchema := r.schemas[entity]
	if !hasSchema {
		schema = usecase.Schema{Entity: entity}
	} else {
		binding.Schema = &schema
	}

	references := map[string]port.OptionLoader{}
	for _, field := range schema.Fields {
		if loader, ok := r.loaders[field.Reference]; ok && field.Reference != "" {
			references[field.Reference] = loader
		}
	}

	deps := usecase.FormDeps[T]{
		Create: func(ctx context.Context, payload map[string]any) (T, error) {
			return client.Create(ctx, payload)
		},
		Update: func(ctx context.Context, id string, patch map[string]any) (T, error) {
			return client.Update(ctx, id, patch)
		},
		References: references,
		OnSuccess: func(ctx context.Context, _ T) {
			_ = list.Refresh(ctx)
		},
	}
	formOpts := usecase.FormOptions{Notifier: r.opts.Notifier, Logger: r.opts.Logger, Cache: r.opts.Cache}

	binding.NewForm = func(ctx context.Context, id string) (port.Form, error) {
		var initial *T
		if strings.TrimSpace(id) != "" {
			record, err := list.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			initial = &record
		}
		form, err := usecase.NewFormController(schema, initial, deps, formOpts)
		if err != nil {
			return nil, err
		}
		return form, nil
	}

	r.bindings[entity] = binding
}

func optionLoader[T catalog.Entity](client *catalogclient.ResourceClient[T], label func(T) string) port.OptionLoader {
	return func(ctx context.Context) ([]port.Option, error) {
		page, err := client.GetAll(ctx, catalog.ListQuery{Page: 1})
		if err != nil {
			return nil, fmt.Errorf("load %s options: %w", client.Name(), err)
		}
		options := make([]port.Option, 0, len(page.Results))
		for _, item := range page.Results {
			options = append(options, port.Option{Value: item.EntityID(), Label: label(item)})
		}
		return options, nil
	}
}

func namedLabel(n catalog.NamedRecord) string { return n.Name }

// Binding returns the binding of a raw or canonical entity name.
func (r *Registry) Binding(entity string) (*Binding, bool) {
	binding, ok := r.bindings[normalization.NormalizeEntity(entity)]
	return binding, ok
}

func (r *Registry) List(entity string) (port.ListPage, bool) {
	binding, ok := r.Binding(entity)
	if !ok {
		return nil, false
	}
	return binding.List, true
}

// Entities lists the bound entities, sorted.
func (r *Registry) Entities() []string {
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gallery opens the image gallery of parentID for a gallery kind (airports, properties, ...).
func (r *Registry) Gallery(name, parentID string, confirmer port.Confirmer) (*usecase.Gallery, bool) {
	canonical := normalization.NormalizeEntity(name)
	client, ok := r.galleries[canonical]
	if !ok {
		return nil, false
	}
	config := client.Config()
	return usecase.NewGallery(client, parentID, usecase.GalleryOptions{
		Name:      canonical,
		Mode:      config.PrimaryMode,
		Confirmer: confirmer,
		Notifier:  r.opts.Notifier,
		Logger:    r.opts.Logger,
	}), true
}

// GalleryNames lists the gallery kinds, sorted.
func (r *Registry) GalleryNames() []string { return r.services.GalleryNames() }

// StreamTo forwards every list state change to broadcaster. The returned func detaches all
// subscriptions.
func (r *Registry) StreamTo(broadcaster port.Broadcaster) (stop func()) {
	stops := make([]func(), 0, len(r.bindings))
	for _, binding := range r.bindings {
		stops = append(stops, binding.List.Subscribe(func(msg *domain.Message) {
			broadcaster.Broadcast(context.Background(), msg)
		}))
	}
	return func() {
		for _, unsubscribe := range stops {
			unsubscribe()
		}
	}
}

// Close stops pending debounce timers and in-flight list fetches.
func (r *Registry) Close() {
	for _, binding := range r.bindings {
		if binding.close != nil {
			binding.close()
		}
	}
}

var _ port.ListDirectory = (*Registry)(nil)
