package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/config"
	"nomadeAdmin/internal/modules/admin/application/handler"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	transport "nomadeAdmin/internal/modules/admin/interface"
	catalogclient "nomadeAdmin/internal/modules/catalog/infrastructure"
	"nomadeAdmin/internal/platform/broker"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/auth"
	"nomadeAdmin/internal/shared/logging"
)

func main() {
	demo := flag.Bool("demo", false, "serve against an in-process fake backend with demo data")
	flag.Parse()

	// Local runs read overrides from .env.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	if *demo {
		backend, baseURL := startDemoBackend()
		defer backend.Close()
		cfg.REST.BaseURL = baseURL
	}
	slog.Info("backend configured", slog.String("baseUrl", cfg.REST.BaseURL), slog.Duration("timeout", cfg.REST.Timeout))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Int("entities", len(cfg.Kafka.Topics)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openSessionStore(ctx, cfg.Session)
	if err != nil {
		slog.Error("session store unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	// One credential per signed-in operator; every request presents its own.
	sessions := auth.NewSessions(store,
		auth.NewTokenInspector(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey),
		logger,
		auth.WithServiceToken(cfg.Session.ServiceToken),
	)
	if err := sessions.Hydrate(ctx); err != nil {
		slog.Warn("session restore failed", slog.Any("error", err))
	}

	rest := restclient.New(cfg.REST.BaseURL, cfg.REST.Timeout, nil,
		restclient.WithAuthenticator(sessions),
		restclient.WithAuthScheme(cfg.REST.AuthScheme),
		restclient.WithLogger(logger),
	)
	services := catalogclient.NewServices(rest)

	hub := infrastructure.NewHub(logger)
	broadcastUC := usecase.NewBroadcastUseCase(hub)
	cache := usecase.NewReferenceCache(cfg.Lists.ReferenceCacheTTL)
	registry := infrastructure.NewRegistry(services, infrastructure.RegistryOptions{
		Ordering: usecase.Ordering(cfg.Lists.Ordering),
		Debounce: cfg.Lists.SearchDebounce,
		Notifier: infrastructure.NewToastNotifier(broadcastUC, logger),
		Cache:    cache,
		Logger:   logger,
	})
	defer registry.Close()
	stopStream := registry.StreamTo(hub)
	defer stopStream()

	// Change events: one handler per configured entity topic.
	handlers := infrastructure.NewHandlerRegistry()
	for entity, topics := range cfg.Kafka.Topics {
		for _, topic := range topics {
			handlers.Register(handler.NewEntityChangeHandler(entity, topic, cfg.Websocket.AllowedActions, registry, cache, broadcastUC, logger))
		}
	}
	waitConsumers := broker.StartKafkaConsumers(ctx, handlers, cfg.Kafka.Brokers, cfg.Kafka.GroupID, handlers.Topics(), logger)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())

	api := transport.NewHandler(registry, hub, usecase.NewSessionUseCase(services.Auth, sessions, logger), sessions, transport.Options{
		AllowedActions: cfg.Websocket.AllowedActions,
		AllowedOrigins: cfg.Websocket.AllowedOrigins,
		SecureCookie:   cfg.Session.CookieSecure,
		RequestTimeout: cfg.REST.Timeout + 5*time.Second,
		Logger:         logger,
	})
	api.Register(e)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
	cancel()
	waitConsumers()
}

// openSessionStore returns the sqlite store when a path is configured, the in-memory store
// otherwise.
func openSessionStore(ctx context.Context, cfg config.SessionConfig) (auth.RecordStore, func(), error) {
	if cfg.DBPath == "" {
		return auth.NewMemoryRecordStore(), func() {}, nil
	}
	store, err := auth.OpenSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	name := filepath.Join(dir, "admin-"+time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
