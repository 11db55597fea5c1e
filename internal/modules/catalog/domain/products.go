package domain

import "time"

// NamedRecord backs the lookup tables (property types, room types, car categories, package
// types, ...) that populate form select inputs.
type NamedRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n NamedRecord) EntityID() string { return n.ID }

type Property struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	PropertyType     string    `json:"property_type,omitempty"`
	PropertyCategory string    `json:"property_category,omitempty"`
	Address          string    `json:"address,omitempty"`
	Rating           string    `json:"rating,omitempty"`
	TotalReviews     int       `json:"total_reviews"`
	Status           string    `json:"status"`
	CheckInTime      string    `json:"check_in_time,omitempty"`
	CheckOutTime     string    `json:"check_out_time,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p Property) EntityID() string { return p.ID }

type Room struct {
	ID        string    `json:"id"`
	Property  string    `json:"property"`
	RoomType  string    `json:"room_type,omitempty"`
	Name      string    `json:"name"`
	MaxGuests int       `json:"max_guests"`
	SizeSqm   string    `json:"size_sqm,omitempty"`
	BedType   string    `json:"bed_type,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (r Room) EntityID() string { return r.ID }

type CarRentalCompany struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c CarRentalCompany) EntityID() string { return c.ID }

type CarRentalLocation struct {
	ID           string    `json:"id"`
	Company      string    `json:"company"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	LocationType string    `json:"location_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (l CarRentalLocation) EntityID() string { return l.ID }

type Car struct {
	ID           string    `json:"id"`
	Company      string    `json:"company"`
	Category     string    `json:"category,omitempty"`
	Make         string    `json:"make,omitempty"`
	Model        string    `json:"model,omitempty"`
	Year         int       `json:"year,omitempty"`
	Seats        int       `json:"seats,omitempty"`
	Transmission string    `json:"transmission,omitempty"`
	FuelType     string    `json:"fuel_type,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c Car) EntityID() string { return c.ID }

type CarAvailability struct {
	ID          string    `json:"id"`
	Car         string    `json:"car"`
	Location    string    `json:"location"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Available   bool      `json:"available"`
	PricePerDay string    `json:"price_per_day"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a CarAvailability) EntityID() string { return a.ID }

type CruiseLine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c CruiseLine) EntityID() string { return c.ID }

type CruiseShip struct {
	ID         string    `json:"id"`
	CruiseLine string    `json:"cruise_line"`
	Name       string    `json:"name"`
	Capacity   int       `json:"capacity,omitempty"`
	YearBuilt  int       `json:"year_built,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s CruiseShip) EntityID() string { return s.ID }

type Cruise struct {
	ID            string    `json:"id"`
	CruiseLine    string    `json:"cruise_line"`
	Ship          string    `json:"ship,omitempty"`
	Name          string    `json:"name"`
	DeparturePort string    `json:"departure_port,omitempty"`
	ArrivalPort   string    `json:"arrival_port,omitempty"`
	DurationDays  int       `json:"duration_days,omitempty"`
	StartDate     string    `json:"start_date,omitempty"`
	EndDate       string    `json:"end_date,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c Cruise) EntityID() string { return c.ID }

type Airline struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Airline) EntityID() string { return a.ID }

type Airport struct {
	ID        string    `json:"id"`
	IATACode  string    `json:"iata_code"`
	ICAOCode  string    `json:"icao_code,omitempty"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Airport) EntityID() string { return a.ID }

type Flight struct {
	ID               string    `json:"id"`
	Airline          string    `json:"airline"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DurationMinutes  int       `json:"duration_minutes,omitempty"`
	AircraftType     string    `json:"aircraft_type,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func (f Flight) EntityID() string { return f.ID }

type Package struct {
	ID              string    `json:"id"`
	PackageType     string    `json:"package_type,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DiscountPercent string    `json:"discount_percent,omitempty"`
	Status          string    `json:"status"`
	StartDate       string    `json:"start_date,omitempty"`
	EndDate         string    `json:"end_date,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p Package) EntityID() string { return p.ID }
