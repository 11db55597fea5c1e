package main

import (
	"log/slog"

	"nomadeAdmin/internal/platform/fakebackend"
)

const (
	demoEmail    = "admin@nomade.local"
	demoPassword = "admin123"
)

// startDemoBackend serves an in-memory backend with a demo operator and a few records, and
// returns its base URL.
func startDemoBackend() (*fakebackend.Backend, string) {
	backend := fakebackend.New()
	baseURL := backend.Start()
	backend.EnforceAuth()
	backend.AddAccount(demoEmail, demoPassword, map[string]any{"first_name": "Demo", "last_name": "Operator", "status": "active"})

	users := backend.Seed("/api/users/users/",
		map[string]any{"email": "lea@nomade.local", "first_name": "Léa", "status": "active", "email_verified": true},
		map[string]any{"email": "omar@nomade.local", "first_name": "Omar", "status": "suspended"},
	)
	backend.Seed("/api/onekey/accounts/",
		map[string]any{"user": users[0]["id"], "onekey_number": "OK-0001", "tier": "gold", "total_points": 1200},
		map[string]any{"user": users[1]["id"], "onekey_number": "OK-0002", "tier": "silver", "total_points": 90},
	)
	airports := backend.Seed("/api/flights/airports/",
		map[string]any{"iata_code": "CDG", "name": "Paris Charles de Gaulle", "city": "Paris", "country": "FR"},
		map[string]any{"iata_code": "LIS", "name": "Lisbon Humberto Delgado", "city": "Lisbon", "country": "PT"},
	)
	backend.Seed("/api/images/airport-images/",
		map[string]any{"airport": airports[0]["id"], "image_url": "https://images.nomade.local/cdg.jpg", "display_order": 0, "is_primary": true},
	)
	backend.Seed("/api/flights/airlines/",
		map[string]any{"code": "AF", "name": "Air France"},
		map[string]any{"code": "TP", "name": "TAP Air Portugal"},
	)

	slog.Info("demo backend started", slog.String("baseUrl", baseURL), slog.String("email", demoEmail))
	return backend, baseURL
}
