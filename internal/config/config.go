package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the gateway and the adminctl CLI read from the environment.
type Config struct {
	Server    ServerConfig
	REST      RESTConfig
	Session   SessionConfig
	Security  SecurityConfig
	Kafka     KafkaConfig
	Websocket WebsocketConfig
	Lists     ListsConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
}

// RESTConfig points at the booking backend.
type RESTConfig struct {
	BaseURL    string
	Timeout    time.Duration
	AuthScheme string
}

type SessionConfig struct {
	// DBPath is the sqlite file holding the persisted tokens. Empty keeps sessions in memory.
	DBPath string
	// ServiceToken is presented by gateway calls made outside any operator request.
	ServiceToken string
	// CookieSecure marks the gateway session cookie Secure.
	CookieSecure bool
}

type SecurityConfig struct {
	JWTSecret    string
	JWTPublicKey string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	// Topics maps a canonical entity name to the topics carrying its change events.
	Topics map[string][]string
}

type WebsocketConfig struct {
	AllowedActions []string
	// AllowedOrigins are the cross-origin pages allowed to open the stream.
	AllowedOrigins []string
}

type ListsConfig struct {
	// Ordering is "last-issued" or "last-resolved".
	Ordering          string
	SearchDebounce    time.Duration
	ReferenceCacheTTL time.Duration
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

// Load reads configuration from the process environment, applying defaults for unset keys.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: envOrDefault("PORT", "8080")},
		REST: RESTConfig{
			BaseURL:    envOrDefault("API_BASE_URL", "http://localhost:8000"),
			AuthScheme: envOrDefault("API_AUTH_SCHEME", "Token"),
		},
		Session: SessionConfig{
			DBPath:       strings.TrimSpace(os.Getenv("SESSION_DB")),
			ServiceToken: strings.TrimSpace(os.Getenv("API_SERVICE_TOKEN")),
		},
		Security: SecurityConfig{
			JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
			JWTPublicKey: strings.TrimSpace(os.Getenv("JWT_PUBLIC_KEY")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(firstNonEmpty(os.Getenv("KAFKA_BROKERS"), os.Getenv("KAFKA_BROKER"))),
			GroupID: envOrDefault("KAFKA_GROUP_ID", "nomade-admin"),
		},
		Websocket: WebsocketConfig{
			AllowedActions: splitList(envOrDefault("WS_ALLOWED_ACTIONS", "created,updated,deleted")),
			AllowedOrigins: splitList(os.Getenv("WS_ALLOWED_ORIGINS")),
		},
		Lists: ListsConfig{Ordering: strings.ToLower(envOrDefault("LIST_ORDERING", "last-issued"))},
		Logging: LoggingConfig{
			Directory: envOrDefault("LOG_DIR", "./logs"),
			Level:     envOrDefault("LOG_LEVEL", "info"),
			Format:    envOrDefault("LOG_FORMAT", "text"),
		},
	}

	var err error
	if cfg.REST.Timeout, err = durationFromEnv("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Lists.SearchDebounce, err = durationFromEnv("SEARCH_DEBOUNCE", 0); err != nil {
		return nil, err
	}
	if cfg.Lists.ReferenceCacheTTL, err = durationFromEnv("REFERENCE_CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.Session.CookieSecure, err = boolFromEnv("SESSION_COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.Kafka.Topics, err = parseTopics(os.Getenv("KAFKA_TOPICS")); err != nil {
		return nil, err
	}

	switch cfg.Lists.Ordering {
	case "last-issued", "last-resolved":
	default:
		return nil, fmt.Errorf("LIST_ORDERING: unsupported value %q", cfg.Lists.Ordering)
	}
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}

	return cfg, nil
}

// parseTopics decodes "entity:topic,entity:topic2" pairs.
func parseTopics(raw string) (map[string][]string, error) {
	topics := map[string][]string{}
	for _, pair := range splitList(raw) {
		entity, topic, ok := strings.Cut(pair, ":")
		entity = strings.TrimSpace(entity)
		topic = strings.TrimSpace(topic)
		if !ok || entity == "" || topic == "" {
			return nil, fmt.Errorf("KAFKA_TOPICS: malformed pair %q", pair)
		}
		topics[entity] = append(topics[entity], topic)
	}
	return topics, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s: negative duration", key)
	}
	return value, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
