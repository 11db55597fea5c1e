package normalization

import (
	"sort"
	"strings"
)

// entityAliases maps singular, snake_case and legacy names to the canonical entity key
// used by routes, Kafka events and the CLI. Underscores are folded into hyphens before
// lookup so only the hyphenated spellings need listing.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	// Users
	"user":            "users",
	"users":           "users",
	"address":         "addresses",
	"addresses":       "addresses",
	"payment-method":  "payment-methods",
	"payment-methods": "payment-methods",
	"paymentmethod":   "payment-methods",
	"paymentmethods":  "payment-methods",
	"profile":         "profiles",
	"profiles":        "profiles",
	"session":         "sessions",
	"sessions":        "sessions",
	"audit-log":       "audit-logs",
	"audit-logs":      "audit-logs",
	"security-logs":   "audit-logs",

	// OneKey loyalty
	"account":             "accounts",
	"accounts":            "accounts",
	"onekey":              "accounts",
	"onekey-account":      "accounts",
	"onekey-accounts":     "accounts",
	"reward":              "rewards",
	"rewards":             "rewards",
	"promotion":           "promotions",
	"promotions":          "promotions",
	"point":               "points",
	"points":              "points",
	"transaction":         "transactions",
	"transactions":        "transactions",
	"onekey-transaction":  "transactions",
	"onekey-transactions": "transactions",

	// Accommodations
	"property":            "properties",
	"properties":          "properties",
	"accommodation":       "properties",
	"accommodations":      "properties",
	"property-type":       "property-types",
	"property-types":      "property-types",
	"property-category":   "property-categories",
	"property-categories": "property-categories",
	"room":                "rooms",
	"rooms":               "rooms",
	"room-type":           "room-types",
	"room-types":          "room-types",
	"room-availability":   "room-availability",

	// Car rentals
	"car":                  "cars",
	"cars":                 "cars",
	"car-rental":           "cars",
	"car-rentals":          "cars",
	"company":              "car-companies",
	"companies":            "car-companies",
	"car-company":          "car-companies",
	"car-companies":        "car-companies",
	"car-rental-company":   "car-companies",
	"car-rental-companies": "car-companies",
	"location":             "car-locations",
	"locations":            "car-locations",
	"car-location":         "car-locations",
	"car-locations":        "car-locations",
	"car-category":         "car-categories",
	"car-categories":       "car-categories",
	"availability":         "car-availability",
	"car-availability":     "car-availability",

	// Cruises
	"cruise":       "cruises",
	"cruises":      "cruises",
	"cruise-line":  "cruise-lines",
	"cruise-lines": "cruise-lines",
	"ship":         "cruise-ships",
	"ships":        "cruise-ships",
	"cruise-ship":  "cruise-ships",
	"cruise-ships": "cruise-ships",
	"port":         "cruise-ports",
	"ports":        "cruise-ports",
	"cruise-port":  "cruise-ports",
	"cruise-ports": "cruise-ports",
	"cabin":        "cabins",
	"cabins":       "cabins",
	"cabin-type":   "cabin-types",
	"cabin-types":  "cabin-types",

	// Flights
	"airline":             "airlines",
	"airlines":            "airlines",
	"airport":             "airports",
	"airports":            "airports",
	"flight":              "flights",
	"flights":             "flights",
	"flight-class":        "flight-classes",
	"flight-classes":      "flight-classes",
	"flight-availability": "flight-availability",

	// Activities
	"activity":            "activities",
	"activities":          "activities",
	"activity-category":   "activity-categories",
	"activity-categories": "activity-categories",
	"schedule":            "activity-schedules",
	"schedules":           "activity-schedules",
	"activity-schedule":   "activity-schedules",
	"activity-schedules":  "activity-schedules",

	// Packages
	"package":            "packages",
	"packages":           "packages",
	"package-type":       "package-types",
	"package-types":      "package-types",
	"component":          "package-components",
	"components":         "package-components",
	"package-component":  "package-components",
	"package-components": "package-components",
}

// NormalizeEntity converts various entity name formats to their canonical form.
//
// Example:
//
//	NormalizeEntity("OneKey_Account") => "accounts"
//	NormalizeEntity("cruise_ship") => "cruise-ships"
func NormalizeEntity(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")

	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsValidEntity checks if the given entity name resolves to a known entity.
func IsValidEntity(raw string) bool {
	normalized := NormalizeEntity(raw)
	if normalized == "" {
		return false
	}
	_, ok := canonicalEntities()[normalized]
	return ok
}

// GetAllValidEntities returns every canonical entity name, sorted.
func GetAllValidEntities() []string {
	set := canonicalEntities()
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func canonicalEntities() map[string]struct{} {
	set := make(map[string]struct{}, len(entityAliases))
	for _, canonical := range entityAliases {
		if canonical != "" {
			set[canonical] = struct{}{}
		}
	}
	return set
}
