package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nomadeAdmin/internal/modules/admin/application/port"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/shared/auth"
	"nomadeAdmin/internal/shared/logging"
)

var ErrMissingCredentials = errors.New("email and password are required")

// SessionKeeper holds the credentials logins produce: auth.Session for a single operator,
// auth.Sessions for the per-caller gateway.
type SessionKeeper interface {
	Open(ctx context.Context, record auth.Record) error
	Close(ctx context.Context, token string, remote auth.RemoteLogout) error
	Lookup(token string) (auth.Principal, bool)
}

// SessionUseCase opens and closes operator sessions against the backend.
type SessionUseCase struct {
	gateway  port.AuthGateway
	sessions SessionKeeper
	logger   *slog.Logger
}

func NewSessionUseCase(gateway port.AuthGateway, sessions SessionKeeper, logger *slog.Logger) *SessionUseCase {
	return &SessionUseCase{gateway: gateway, sessions: sessions, logger: logging.Component(logger, "session")}
}

// Login exchanges credentials for a backend token and stores it. The returned record carries
// the token the caller presents from now on.
func (uc *SessionUseCase) Login(ctx context.Context, email, password string) (auth.Record, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.Record{}, ErrMissingCredentials
	}
	response, err := uc.gateway.Login(ctx, catalog.Credentials{Email: email, Password: password})
	if err != nil {
		uc.logger.Warn("login rejected", slog.String("email", email), slog.Any("error", err))
		return auth.Record{}, fmt.Errorf("login: %w", err)
	}
	principal := auth.Principal{
		ID:        response.User.ID,
		Email:     firstNonBlank(response.User.Email, email),
		FirstName: response.User.FirstName,
		LastName:  response.User.LastName,
	}
	record := auth.Record{Token: response.Token, SessionToken: response.SessionToken, User: principal}
	if err := uc.sessions.Open(ctx, record); err != nil {
		return auth.Record{}, fmt.Errorf("store session: %w", err)
	}
	return record, nil
}

// Logout forgets token even when the backend logout call fails.
func (uc *SessionUseCase) Logout(ctx context.Context, token string) error {
	return uc.sessions.Close(ctx, token, uc.gateway.Logout)
}

// Current returns the operator signed in with token.
func (uc *SessionUseCase) Current(token string) (auth.Principal, bool) {
	return uc.sessions.Lookup(token)
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
