package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"nomadeAdmin/internal/shared/normalization"
)

// ErrInvalidForm is matched by every ValidationError.
var ErrInvalidForm = errors.New("form validation failed")

type FieldKind string

const (
	KindText   FieldKind = "text"
	KindEmail  FieldKind = "email"
	KindURL    FieldKind = "url"
	KindUUID   FieldKind = "uuid"
	KindNumber FieldKind = "number"
	KindEnum   FieldKind = "enum"
	KindBool   FieldKind = "bool"
	KindDate   FieldKind = "date"
)

// Field describes one input of an entity form.
type Field struct {
	Name string
	Kind FieldKind
	// Required applies to create and update; RequiredOnCreate only to create.
	Required         bool
	RequiredOnCreate bool
	// WriteOnly fields are never seeded from the record and only sent when filled in.
	WriteOnly bool
	Options   []string
	Min       *float64
	Max       *float64
	MinLength int
	MaxLength int
	Length    int
	Default   any
	// Reference names the option set feeding this select.
	Reference string
	Message   string
}

// Check is a cross-field rule. It returns the offending field and message when it fails.
type Check func(draft map[string]any) (field, message string, failed bool)

type Schema struct {
	Entity string
	Fields []Field
	Checks []Check
}

// FieldErrors maps field names to the first validation message for that field.
type FieldErrors map[string]string

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidForm }

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Defaults returns the seed draft for a create form.
func (s Schema) Defaults() map[string]any {
	draft := map[string]any{}
	for _, field := range s.Fields {
		if field.Default != nil {
			draft[field.Name] = field.Default
		}
	}
	return draft
}

// Coerce converts textual input to the kind of each field, leaving unparseable values in
// place so Validate can report them.
func (s Schema) Coerce(draft map[string]any) {
	for _, field := range s.Fields {
		value, ok := draft[field.Name]
		if !ok {
			continue
		}
		text, isText := value.(string)
		if !isText {
			continue
		}
		trimmed := strings.TrimSpace(text)
		switch field.Kind {
		case KindNumber:
			if trimmed == "" {
				draft[field.Name] = nil
				continue
			}
			if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
				draft[field.Name] = number
			}
		case KindBool:
			if parsed, err := strconv.ParseBool(trimmed); err == nil {
				draft[field.Name] = parsed
			}
		default:
			draft[field.Name] = trimmed
		}
	}
}

// Validate checks draft against the schema. creating selects the create-only requirements.
func (s Schema) Validate(draft map[string]any, creating bool) error {
	errs := FieldErrors{}
	for _, field := range s.Fields {
		if message, failed := field.validate(draft[field.Name], creating); failed {
			errs[field.Name] = message
		}
	}
	for _, check := range s.Checks {
		if name, message, failed := check(draft); failed {
			if _, exists := errs[name]; !exists {
				errs[name] = message
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// fieldRules is shared by every schema; the validator caches parsed tags.
var fieldRules = validator.New(validator.WithRequiredStructEnabled())

// validate runs the field's rule string against value. Values are handed over as typed
// pointers so a present zero (0, false) satisfies "required" while a blank one does not.
func (f Field) validate(value any, creating bool) (string, bool) {
	var subject any
	switch f.Kind {
	case KindNumber:
		var number *float64
		if !normalization.IsBlank(value) {
			parsed, ok := normalization.AsFloat64(value)
			if !ok {
				return f.message("must be a number"), true
			}
			number = &parsed
		}
		subject = number
	case KindBool:
		var flag *bool
		if !normalization.IsBlank(value) {
			parsed, ok := normalization.AsBool(value)
			if !ok {
				return f.message("must be true or false"), true
			}
			flag = &parsed
		}
		subject = flag
	default:
		var text *string
		if !normalization.IsBlank(value) {
			parsed, ok := value.(string)
			if !ok {
				return f.message("must be text"), true
			}
			text = &parsed
		}
		subject = text
	}

	err := fieldRules.Var(subject, f.rules(creating))
	if err == nil {
		return "", false
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return f.message(err.Error()), true
	}
	return f.message(f.describe(failures[0])), true
}

// rules renders the field as a validator tag, e.g. "required,email" or "omitempty,min=0,max=5".
func (f Field) rules(creating bool) string {
	tags := []string{"omitempty"}
	if f.Required || (creating && f.RequiredOnCreate) {
		tags[0] = "required"
	}
	switch f.Kind {
	case KindNumber:
		if f.Min != nil {
			tags = append(tags, "min="+formatNumber(*f.Min))
		}
		if f.Max != nil {
			tags = append(tags, "max="+formatNumber(*f.Max))
		}
		return strings.Join(tags, ",")
	case KindBool:
		return strings.Join(tags, ",")
	}
	if f.MinLength > 0 {
		tags = append(tags, "min="+strconv.Itoa(f.MinLength))
	}
	if f.MaxLength > 0 {
		tags = append(tags, "max="+strconv.Itoa(f.MaxLength))
	}
	if f.Length > 0 {
		tags = append(tags, "len="+strconv.Itoa(f.Length))
	}
	switch f.Kind {
	case KindEmail:
		tags = append(tags, "email")
	case KindURL:
		tags = append(tags, "http_url")
	case KindDate:
		tags = append(tags, "datetime="+time.DateOnly)
	case KindUUID:
		tags = append(tags, "uuid")
	case KindEnum:
		tags = append(tags, "oneof="+strings.Join(f.Options, " "))
	}
	return strings.Join(tags, ",")
}

func (f Field) describe(failure validator.FieldError) string {
	switch failure.Tag() {
	case "required":
		return "is required"
	case "min":
		if f.Kind == KindNumber {
			return "must be at least " + failure.Param()
		}
		return "must be at least " + failure.Param() + " characters"
	case "max":
		if f.Kind == KindNumber {
			return "must be at most " + failure.Param()
		}
		return "must be at most " + failure.Param() + " characters"
	case "len":
		return "must be exactly " + failure.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "http_url":
		return "must be a valid URL"
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "uuid":
		return "must be a valid identifier"
	case "oneof":
		return "must be one of " + strings.Join(f.Options, ", ")
	}
	return "is invalid"
}

func (f Field) message(fallback string) string {
	if f.Message != "" {
		return f.Message
	}
	return fallback
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func floatPtr(value float64) *float64 { return &value }

// dateOrder fails when end is set and sorts before start (ISO dates compare lexically).
func dateOrder(start, end string) Check {
	return func(draft map[string]any) (string, string, bool) {
		from := normalization.AsString(draft[start])
		to := normalization.AsString(draft[end])
		if from == "" || to == "" {
			return "", "", false
		}
		if to < from {
			return end, "must not be before " + strings.ReplaceAll(start, "_", " "), true
		}
		return "", "", false
	}
}

// AccountSchema validates loyalty accounts.
func AccountSchema() Schema {
	return Schema{
		Entity: "accounts",
		Fields: []Field{
			{Name: "user", Kind: KindUUID, Required: true, Reference: "users", Message: "Select a user"},
			{Name: "onekey_number", Kind: KindText},
			{Name: "tier", Kind: KindEnum, Required: true, Options: []string{"silver", "gold", "platinum", "diamond"}, Default: "silver"},
			{Name: "total_points", Kind: KindNumber, Required: true, Min: floatPtr(0), Default: 0, Message: "Points must be positive"},
		},
	}
}

func UserSchema() Schema {
	return Schema{
		Entity: "users",
		Fields: []Field{
			{Name: "email", Kind: KindEmail, Required: true},
			{Name: "password", Kind: KindText, RequiredOnCreate: true, WriteOnly: true, MinLength: 6},
			{Name: "first_name", Kind: KindText},
			{Name: "last_name", Kind: KindText},
			{Name: "phone", Kind: KindText},
			{Name: "date_of_birth", Kind: KindDate},
			{Name: "status", Kind: KindEnum, Required: true, Options: []string{"active", "inactive", "suspended", "deleted"}, Default: "active"},
		},
	}
}

func PropertySchema() Schema {
	return Schema{
		Entity: "properties",
		Fields: []Field{
			{Name: "name", Kind: KindText, Required: true, MinLength: 1},
			{Name: "property_type", Kind: KindUUID, Reference: "property-types"},
			{Name: "property_category", Kind: KindUUID, Reference: "property-categories"},
			{Name: "rating", Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(5)},
			{Name: "status", Kind: KindEnum, Required: true, Options: []string{"active", "inactive", "pending", "suspended"}, Default: "active"},
			{Name: "check_in_time", Kind: KindText},
			{Name: "check_out_time", Kind: KindText},
		},
	}
}

// AirportImageSchema validates the standalone airport image form.
func AirportImageSchema() Schema {
	return Schema{
		Entity: "airport-images",
		Fields: []Field{
			{Name: "airport", Kind: KindUUID, Required: true, Reference: "airports"},
			{Name: "image_url", Kind: KindURL, Required: true},
			{Name: "image_type", Kind: KindEnum, Required: true, Options: []string{"main", "terminal", "lounge", "exterior", "gallery"}, Default: "main"},
			{Name: "alt_text", Kind: KindText, MaxLength: 255},
			{Name: "display_order", Kind: KindNumber, Min: floatPtr(0), Default: 0},
			{Name: "is_primary", Kind: KindBool, Default: false},
		},
	}
}

func CarAvailabilitySchema() Schema {
	return Schema{
		Entity: "car-availability",
		Fields: []Field{
			{Name: "car", Kind: KindUUID, Required: true, Reference: "cars", Message: "A car is required"},
			{Name: "location", Kind: KindUUID, Required: true, Reference: "car-locations", Message: "A rental location is required"},
			{Name: "start_date", Kind: KindDate, Required: true},
			{Name: "end_date", Kind: KindDate, Required: true},
			{Name: "available", Kind: KindBool, Default: true},
			{Name: "price_per_day", Kind: KindNumber, Min: floatPtr(0)},
			{Name: "currency", Kind: KindText, Length: 3, Default: "EUR"},
		},
		Checks: []Check{dateOrder("start_date", "end_date")},
	}
}

func AddressSchema() Schema {
	return Schema{
		Entity: "addresses",
		Fields: []Field{
			{Name: "user", Kind: KindUUID, Required: true, Reference: "users", Message: "Select a user"},
			{Name: "address_type", Kind: KindEnum, Required: true, Options: []string{"billing", "shipping", "home", "work", "other"}, Default: "home"},
			{Name: "street", Kind: KindText},
			{Name: "city", Kind: KindText},
			{Name: "postal_code", Kind: KindText},
			{Name: "country", Kind: KindText},
			{Name: "is_default", Kind: KindBool, Default: false},
		},
	}
}

func PackageSchema() Schema {
	return Schema{
		Entity: "packages",
		Fields: []Field{
			{Name: "name", Kind: KindText, Required: true, MinLength: 1},
			{Name: "package_type", Kind: KindUUID, Reference: "package-types"},
			{Name: "description", Kind: KindText},
			{Name: "discount_percent", Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			{Name: "status", Kind: KindEnum, Required: true, Options: []string{"active", "inactive"}, Default: "active"},
			{Name: "start_date", Kind: KindDate},
			{Name: "end_date", Kind: KindDate},
		},
		Checks: []Check{dateOrder("start_date", "end_date")},
	}
}

// Schemas returns every built-in schema keyed by canonical entity.
func Schemas() map[string]Schema {
	all := []Schema{AccountSchema(), UserSchema(), PropertySchema(), AirportImageSchema(), CarAvailabilitySchema(), AddressSchema(), PackageSchema()}
	byEntity := make(map[string]Schema, len(all))
	for _, schema := range all {
		byEntity[schema.Entity] = schema
	}
	return byEntity
}
