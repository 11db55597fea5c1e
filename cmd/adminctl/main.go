package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"nomadeAdmin/internal/cli"
	"nomadeAdmin/internal/config"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	catalogclient "nomadeAdmin/internal/modules/catalog/infrastructure"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/auth"
	"nomadeAdmin/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Only warnings and errors reach the terminal unless LOG_LEVEL asks for more.
	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "warn"
	}
	logger := logging.New(os.Stderr, logging.Config{Level: level, Format: "text"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath, err := sessionPath(cfg.Session.DBPath)
	if err != nil {
		return err
	}
	store, err := auth.OpenSQLiteStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	session := auth.NewSession(store, auth.NewTokenInspector(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey), logger)
	if err := session.Hydrate(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	rest := restclient.New(cfg.REST.BaseURL, cfg.REST.Timeout, nil,
		restclient.WithAuthenticator(session),
		restclient.WithAuthScheme(cfg.REST.AuthScheme),
		restclient.WithLogger(logger),
	)
	services := catalogclient.NewServices(rest)
	registry := infrastructure.NewRegistry(services, infrastructure.RegistryOptions{
		Ordering: usecase.Ordering(cfg.Lists.Ordering),
		Notifier: cli.NewNotifier(os.Stderr),
		Cache:    usecase.NewReferenceCache(cfg.Lists.ReferenceCacheTTL),
		Logger:   logger,
	})
	defer registry.Close()

	app := cli.NewApp(cli.Deps{
		Session:   session,
		SessionUC: usecase.NewSessionUseCase(services.Auth, session, logger),
		Registry:  registry,
	})
	return cli.NewRootCommand(app).ExecuteContext(ctx)
}

// sessionPath defaults the session database to the user config directory.
func sessionPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	dir = filepath.Join(dir, "nomade-admin")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return filepath.Join(dir, "session.db"), nil
}
