package infrastructure

import (
	"sort"

	"nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
)

// Services is the per-entity client registry. Each field is one constructor call naming the
// backend path; the canonical entity key matches normalization.NormalizeEntity.
type Services struct {
	Auth *AuthClient

	Users          *ResourceClient[domain.User]
	Addresses      *ResourceClient[domain.Address]
	PaymentMethods *ResourceClient[domain.PaymentMethod]
	Profiles       *ResourceClient[domain.Record]
	Sessions       *ResourceClient[domain.Record]
	AuditLogs      *ResourceClient[domain.Record]

	Accounts     *ResourceClient[domain.OneKeyAccount]
	Rewards      *ResourceClient[domain.OneKeyReward]
	Promotions   *ResourceClient[domain.OneKeyPromotion]
	Points       *ResourceClient[domain.Record]
	Transactions *ResourceClient[domain.OneKeyTransaction]

	Properties         *ResourceClient[domain.Property]
	PropertyTypes      *ResourceClient[domain.NamedRecord]
	PropertyCategories *ResourceClient[domain.NamedRecord]
	Rooms              *ResourceClient[domain.Room]
	RoomTypes          *ResourceClient[domain.NamedRecord]
	RoomAvailability   *ResourceClient[domain.Record]

	Cars            *ResourceClient[domain.Car]
	CarCompanies    *ResourceClient[domain.CarRentalCompany]
	CarLocations    *ResourceClient[domain.CarRentalLocation]
	CarCategories   *ResourceClient[domain.NamedRecord]
	CarAvailability *ResourceClient[domain.CarAvailability]

	Cruises     *ResourceClient[domain.Cruise]
	CruiseLines *ResourceClient[domain.CruiseLine]
	CruiseShips *ResourceClient[domain.CruiseShip]
	CruisePorts *ResourceClient[domain.Record]
	Cabins      *ResourceClient[domain.Record]
	CabinTypes  *ResourceClient[domain.Record]

	Airlines           *ResourceClient[domain.Airline]
	Airports           *ResourceClient[domain.Airport]
	Flights            *ResourceClient[domain.Flight]
	FlightClasses      *ResourceClient[domain.Record]
	FlightAvailability *ResourceClient[domain.Record]

	Activities         *ResourceClient[domain.Record]
	ActivityCategories *ResourceClient[domain.NamedRecord]
	ActivitySchedules  *ResourceClient[domain.Record]
	Packages           *ResourceClient[domain.Package]
	PackageTypes       *ResourceClient[domain.NamedRecord]
	PackageComponents  *ResourceClient[domain.Record]

	Galleries map[string]*ImageClient
}

func NewServices(rest *restclient.Client) *Services {
	return &Services{
		Auth: NewAuthClient(rest),

		Users:          NewResourceClient[domain.User](rest, "users", "/api/users/users/", WithCreatePath("/api/users/users/register/")),
		Addresses:      NewResourceClient[domain.Address](rest, "addresses", "/api/users/addresses/"),
		PaymentMethods: NewResourceClient[domain.PaymentMethod](rest, "payment-methods", "/api/users/payment-methods/"),
		Profiles:       NewResourceClient[domain.Record](rest, "profiles", "/api/users/profiles/"),
		Sessions:       NewResourceClient[domain.Record](rest, "sessions", "/api/users/sessions/"),
		AuditLogs:      NewResourceClient[domain.Record](rest, "audit-logs", "/api/security/audit-logs/"),

		Accounts:     NewResourceClient[domain.OneKeyAccount](rest, "accounts", "/api/onekey/accounts/"),
		Rewards:      NewResourceClient[domain.OneKeyReward](rest, "rewards", "/api/onekey/rewards/"),
		Promotions:   NewResourceClient[domain.OneKeyPromotion](rest, "promotions", "/api/onekey/promotions/"),
		Points:       NewResourceClient[domain.Record](rest, "points", "/api/onekey/points/"),
		Transactions: NewResourceClient[domain.OneKeyTransaction](rest, "transactions", "/api/onekey/transactions/"),

		Properties:         NewResourceClient[domain.Property](rest, "properties", "/api/accommodations/properties/"),
		PropertyTypes:      NewResourceClient[domain.NamedRecord](rest, "property-types", "/api/accommodations/property-types/"),
		PropertyCategories: NewResourceClient[domain.NamedRecord](rest, "property-categories", "/api/accommodations/property-categories/"),
		Rooms:              NewResourceClient[domain.Room](rest, "rooms", "/api/accommodations/rooms/"),
		RoomTypes:          NewResourceClient[domain.NamedRecord](rest, "room-types", "/api/accommodations/room-types/"),
		RoomAvailability:   NewResourceClient[domain.Record](rest, "room-availability", "/api/accommodations/room-availability/"),

		Cars:            NewResourceClient[domain.Car](rest, "cars", "/api/car-rentals/cars/"),
		CarCompanies:    NewResourceClient[domain.CarRentalCompany](rest, "car-companies", "/api/car-rentals/companies/"),
		CarLocations:    NewResourceClient[domain.CarRentalLocation](rest, "car-locations", "/api/car-rentals/locations/"),
		CarCategories:   NewResourceClient[domain.NamedRecord](rest, "car-categories", "/api/car-rentals/categories/"),
		CarAvailability: NewResourceClient[domain.CarAvailability](rest, "car-availability", "/api/car-rentals/availability/"),

		Cruises:     NewResourceClient[domain.Cruise](rest, "cruises", "/api/cruises/cruises/"),
		CruiseLines: NewResourceClient[domain.CruiseLine](rest, "cruise-lines", "/api/cruises/cruise-lines/"),
		CruiseShips: NewResourceClient[domain.CruiseShip](rest, "cruise-ships", "/api/cruises/ships/"),
		CruisePorts: NewResourceClient[domain.Record](rest, "cruise-ports", "/api/cruises/ports/"),
		Cabins:      NewResourceClient[domain.Record](rest, "cabins", "/api/cruises/cabins/"),
		CabinTypes:  NewResourceClient[domain.Record](rest, "cabin-types", "/api/cruises/cabin-types/"),

		Airlines:           NewResourceClient[domain.Airline](rest, "airlines", "/api/flights/airlines/"),
		Airports:           NewResourceClient[domain.Airport](rest, "airports", "/api/flights/airports/"),
		Flights:            NewResourceClient[domain.Flight](rest, "flights", "/api/flights/flights/"),
		FlightClasses:      NewResourceClient[domain.Record](rest, "flight-classes", "/api/flights/flight-classes/"),
		FlightAvailability: NewResourceClient[domain.Record](rest, "flight-availability", "/api/flights/flight-availability/"),

		Activities:         NewResourceClient[domain.Record](rest, "activities", "/api/activities/activities/"),
		ActivityCategories: NewResourceClient[domain.NamedRecord](rest, "activity-categories", "/api/activities/categories/"),
		ActivitySchedules:  NewResourceClient[domain.Record](rest, "activity-schedules", "/api/activities/schedules/"),
		Packages:           NewResourceClient[domain.Package](rest, "packages", "/api/packages/packages/"),
		PackageTypes:       NewResourceClient[domain.NamedRecord](rest, "package-types", "/api/packages/package-types/"),
		PackageComponents:  NewResourceClient[domain.Record](rest, "package-components", "/api/packages/components/"),

		Galleries: newGalleries(rest),
	}
}

// galleryConfigs lists the image collections keyed by parent entity.
var galleryConfigs = []GalleryConfig{
	{Name: "properties", Path: "/api/accommodations/property-images/", ParentParam: "property_id", ParentField: "property", PrimaryMode: domain.PrimaryMainType, DefaultType: "gallery"},
	{Name: "rooms", Path: "/api/images/room-images/", ParentParam: "room_id", ParentField: "room"},
	{Name: "airports", Path: "/api/images/airport-images/", ParentParam: "airport_id", ParentField: "airport"},
	{Name: "airlines", Path: "/api/images/airline-images/", ParentParam: "airline_id", ParentField: "airline"},
	{Name: "cars", Path: "/api/images/car-images/", ParentParam: "car_id", ParentField: "car"},
	{Name: "cruise-ships", Path: "/api/images/cruise-ship-images/", ParentParam: "cruise_ship_id", ParentField: "cruise_ship"},
	{Name: "cruises", Path: "/api/images/cruise-images/", ParentParam: "cruise_id", ParentField: "cruise"},
	{Name: "flights", Path: "/api/images/flight-images/", ParentParam: "flight_id", ParentField: "flight"},
}

func newGalleries(rest *restclient.Client) map[string]*ImageClient {
	galleries := make(map[string]*ImageClient, len(galleryConfigs))
	for _, config := range galleryConfigs {
		galleries[config.Name] = NewImageClient(rest, config)
	}
	return galleries
}

// GalleryNames returns the parent kinds that own an image collection, sorted.
func (s *Services) GalleryNames() []string {
	names := make([]string, 0, len(s.Galleries))
	for name := range s.Galleries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
