package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_BASE_URL", "API_TIMEOUT", "KAFKA_BROKERS", "KAFKA_BROKER", "KAFKA_TOPICS", "LIST_ORDERING", "SEARCH_DEBOUNCE", "REFERENCE_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Server.Port)
	}
	if cfg.REST.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base url: %s", cfg.REST.BaseURL)
	}
	if cfg.REST.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.REST.Timeout)
	}
	if cfg.REST.AuthScheme != "Token" {
		t.Fatalf("unexpected auth scheme: %s", cfg.REST.AuthScheme)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("expected no brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Lists.Ordering != "last-issued" {
		t.Fatalf("unexpected ordering: %s", cfg.Lists.Ordering)
	}
	if cfg.Lists.SearchDebounce != 0 {
		t.Fatalf("expected no debounce, got %s", cfg.Lists.SearchDebounce)
	}
}

func TestLoadParsesTopicsAndDurations(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPICS", "onekey-accounts:onekey.accounts, properties:accommodations.properties,properties:accommodations.rooms")
	t.Setenv("SEARCH_DEBOUNCE", "300ms")
	t.Setenv("REFERENCE_CACHE_TTL", "1m")
	t.Setenv("LIST_ORDERING", "Last-Resolved")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if got := cfg.Kafka.Topics["properties"]; len(got) != 2 {
		t.Fatalf("expected two property topics, got %v", got)
	}
	if cfg.Lists.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("unexpected debounce: %s", cfg.Lists.SearchDebounce)
	}
	if cfg.Lists.ReferenceCacheTTL != time.Minute {
		t.Fatalf("unexpected cache ttl: %s", cfg.Lists.ReferenceCacheTTL)
	}
	if cfg.Lists.Ordering != "last-resolved" {
		t.Fatalf("unexpected ordering: %s", cfg.Lists.Ordering)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad duration": {"API_TIMEOUT", "soon"},
		"bad topics":   {"KAFKA_TOPICS", "missing-separator"},
		"bad ordering": {"LIST_ORDERING", "random"},
		"bad port":     {"PORT", "http"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadSessionAndOriginSettings(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LIST_ORDERING", "")
	t.Setenv("KAFKA_TOPICS", "")
	t.Setenv("API_SERVICE_TOKEN", " svc-token ")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://admin.nomade.travel, http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.ServiceToken != "svc-token" {
		t.Fatalf("unexpected service token: %q", cfg.Session.ServiceToken)
	}
	if !cfg.Session.CookieSecure {
		t.Fatalf("expected secure cookie")
	}
	if len(cfg.Websocket.AllowedOrigins) != 2 || cfg.Websocket.AllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected origins: %v", cfg.Websocket.AllowedOrigins)
	}

	t.Setenv("SESSION_COOKIE_SECURE", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed SESSION_COOKIE_SECURE")
	}
}
