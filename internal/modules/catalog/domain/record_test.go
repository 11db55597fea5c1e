package domain

import "testing"

func TestRecordEntityID(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		record Record
		want   string
	}{
		"uuid":    {record: Record{"id": "3f2a"}, want: "3f2a"},
		"numeric": {record: Record{"id": float64(42)}, want: "42"},
		"missing": {record: Record{"name": "x"}, want: ""},
	}
	for name, tc := range cases {
		if got := tc.record.EntityID(); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}
