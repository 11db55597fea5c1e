package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// RemoteLogout invalidates the token on the backend.
type RemoteLogout func(ctx context.Context) error

// Session holds the single operator credential of a one-user process such as adminctl. It is
// constructed once and injected; nothing reads a global. The HTTP gateway keys credentials
// per caller with Sessions instead.
type Session struct {
	mu        sync.RWMutex
	store     TokenStore
	inspector *TokenInspector
	logger    *slog.Logger
	record    *Record
	listeners []func(authenticated bool)
}

func NewSession(store TokenStore, inspector *TokenInspector, logger *slog.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if inspector == nil {
		inspector = NewTokenInspector("", "")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, inspector: inspector, logger: logger}
}

// Hydrate restores the persisted record. An expired or malformed JWT is discarded and the
// store cleared.
func (s *Session) Hydrate(ctx context.Context) error {
	record, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if record == nil || strings.TrimSpace(record.Token) == "" {
		return nil
	}
	if err := s.inspector.Check(record.Token); err != nil {
		s.logger.Warn("discarding persisted session token", slog.String("reason", err.Error()))
		return s.store.Clear(ctx)
	}

	s.mu.Lock()
	s.record = record
	s.mu.Unlock()
	s.logger.Info("session hydrated", slog.String("user", record.User.Email))
	s.notify(true)
	return nil
}

func (s *Session) Login(ctx context.Context, token string, user Principal, sessionToken string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	record := Record{Token: token, SessionToken: sessionToken, User: user}
	if err := s.store.Save(ctx, record); err != nil {
		return err
	}
	s.mu.Lock()
	s.record = &record
	s.mu.Unlock()
	s.logger.Info("session opened", slog.String("user", user.Email))
	s.notify(true)
	return nil
}

// Logout asks the backend to drop the token, then clears local state whatever the backend
// answered. Only a failure to clear the local store is returned.
func (s *Session) Logout(ctx context.Context, remote RemoteLogout) error {
	if remote != nil && s.IsAuthenticated() {
		if err := remote(ctx); err != nil {
			s.logger.Warn("backend logout failed, clearing session anyway", slog.Any("error", err))
		}
	}
	return s.clear(ctx, "logout")
}

// Expire drops the credential after the backend rejected it.
func (s *Session) Expire() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.clear(ctx, "expired"); err != nil {
		s.logger.Error("session store clear failed", slog.Any("error", err))
	}
}

func (s *Session) clear(ctx context.Context, reason string) error {
	s.mu.Lock()
	wasAuthenticated := s.record != nil
	s.record = nil
	s.mu.Unlock()

	err := s.store.Clear(ctx)
	if wasAuthenticated {
		s.logger.Info("session closed", slog.String("reason", reason))
		s.notify(false)
	}
	return err
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return ""
	}
	return s.record.Token
}

func (s *Session) User() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return Principal{}, false
	}
	return s.record.User, true
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// OnChange registers a callback invoked after every login, hydrate, logout or expiry.
func (s *Session) OnChange(fn func(authenticated bool)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) notify(authenticated bool) {
	s.mu.RLock()
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(authenticated)
	}
}

// Credential returns the token bound to ctx, falling back to the held one.
func (s *Session) Credential(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != "" {
		return token
	}
	return s.Token()
}

// Reject expires the session when the backend refused the token it holds.
func (s *Session) Reject(_ context.Context, token string) {
	held := s.Token()
	if held == "" || (token != "" && token != held) {
		return
	}
	s.Expire()
}

// Open stores a freshly issued credential. It replaces any held one.
func (s *Session) Open(ctx context.Context, record Record) error {
	return s.Login(ctx, record.Token, record.User, record.SessionToken)
}

// Close logs out when token is the held credential or blank.
func (s *Session) Close(ctx context.Context, token string, remote RemoteLogout) error {
	if held := s.Token(); token != "" && token != held {
		return nil
	}
	return s.Logout(ctx, remote)
}

// Lookup reports the operator holding token.
func (s *Session) Lookup(token string) (Principal, bool) {
	token = strings.TrimSpace(token)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if token == "" || s.record == nil || s.record.Token != token {
		return Principal{}, false
	}
	return s.record.User, true
}

// ErrNotAuthenticated is returned by operations that need an open session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Require returns ErrNotAuthenticated when no token is held.
func (s *Session) Require() error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
