package normalization

import "testing"

func TestNormalizeEntity(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"OneKey_Account":  "accounts",
		"cruise_ship":     "cruise-ships",
		" Property ":      "properties",
		"car-rental":      "cars",
		"payment_methods": "payment-methods",
		"unknown_thing":   "unknown-thing",
		"-":               "",
	}
	for raw, want := range cases {
		if got := NormalizeEntity(raw); got != want {
			t.Fatalf("NormalizeEntity(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestIsValidEntity(t *testing.T) {
	t.Parallel()

	if !IsValidEntity("airport") {
		t.Fatalf("expected airport to be valid")
	}
	if IsValidEntity("restaurants") {
		t.Fatalf("expected restaurants to be unknown")
	}
	if IsValidEntity("") {
		t.Fatalf("expected empty entity to be invalid")
	}

	all := GetAllValidEntities()
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("expected sorted unique names, got %q before %q", all[i-1], all[i])
		}
	}
}

func TestCoercions(t *testing.T) {
	t.Parallel()

	if got, ok := AsInt("12"); !ok || got != 12 {
		t.Fatalf("AsInt string: got %d %v", got, ok)
	}
	if _, ok := AsInt(1.5); ok {
		t.Fatalf("AsInt should reject fractional floats")
	}
	if got, ok := AsFloat64(" 3.25 "); !ok || got != 3.25 {
		t.Fatalf("AsFloat64 string: got %v %v", got, ok)
	}
	if got, ok := AsBool("true"); !ok || !got {
		t.Fatalf("AsBool string: got %v %v", got, ok)
	}
	if got := AsString(float64(500)); got != "500" {
		t.Fatalf("AsString float: got %q", got)
	}
	if !IsBlank("   ") || IsBlank(0) {
		t.Fatalf("IsBlank mismatch")
	}
}

func TestProjectUsesJSONNames(t *testing.T) {
	t.Parallel()

	type account struct {
		Tier        string `json:"tier"`
		TotalPoints int    `json:"total_points"`
	}
	projected, err := Project(account{Tier: "gold", TotalPoints: 10})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if projected["tier"] != "gold" || projected["total_points"] != float64(10) {
		t.Fatalf("unexpected projection %+v", projected)
	}
}

func TestMapFromPayloadUnwrapsData(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"data": map[string]any{"id": "1"}}
	if got := MapFromPayload(payload); got["id"] != "1" {
		t.Fatalf("expected data envelope to be unwrapped, got %+v", got)
	}
	if got := MapFromPayload("nope"); got != nil {
		t.Fatalf("expected nil for non-map payload")
	}
}
