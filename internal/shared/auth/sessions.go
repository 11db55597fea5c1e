package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Sessions keys operator credentials by backend token so every HTTP caller is checked
// against its own login. It owns hydrate and teardown of the persisted records and
// implements the REST client's authenticator: calls present the token bound to their
// context.
type Sessions struct {
	mu        sync.RWMutex
	store     RecordStore
	inspector *TokenInspector
	logger    *slog.Logger
	records   map[string]Record
	// recent is the token of the latest login, presented by calls that carry no caller.
	recent  string
	service string
}

type SessionsOption func(*Sessions)

// WithServiceToken sets the credential presented by background calls, such as change-event
// refreshes, that run outside any operator request.
func WithServiceToken(token string) SessionsOption {
	return func(s *Sessions) { s.service = strings.TrimSpace(token) }
}

func NewSessions(store RecordStore, inspector *TokenInspector, logger *slog.Logger, opts ...SessionsOption) *Sessions {
	if store == nil {
		store = NewMemoryRecordStore()
	}
	if inspector == nil {
		inspector = NewTokenInspector("", "")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sessions{
		store:     store,
		inspector: inspector,
		logger:    logger.With(slog.String("component", "sessions")),
		records:   make(map[string]Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores the persisted records, dropping expired or malformed JWTs.
func (s *Sessions) Hydrate(ctx context.Context) error {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	restored := 0
	for _, record := range records {
		if strings.TrimSpace(record.Token) == "" {
			continue
		}
		if err := s.inspector.Check(record.Token); err != nil {
			s.logger.Warn("discarding persisted session token", slog.String("user", record.User.Email), slog.String("reason", err.Error()))
			if err := s.store.Delete(ctx, record.Token); err != nil {
				return err
			}
			continue
		}
		s.mu.Lock()
		s.records[record.Token] = record
		s.recent = record.Token
		s.mu.Unlock()
		restored++
	}
	s.logger.Info("sessions hydrated", slog.Int("count", restored))
	return nil
}

// Open stores a freshly issued credential next to the ones already held.
func (s *Sessions) Open(ctx context.Context, record Record) error {
	record.Token = strings.TrimSpace(record.Token)
	if record.Token == "" {
		return ErrMissingToken
	}
	if err := s.store.Put(ctx, record); err != nil {
		return err
	}
	s.mu.Lock()
	s.records[record.Token] = record
	s.recent = record.Token
	s.mu.Unlock()
	s.logger.Info("session opened", slog.String("user", record.User.Email))
	return nil
}

// Close asks the backend to drop token, then forgets it whatever the backend answered.
// Unknown tokens are ignored.
func (s *Sessions) Close(ctx context.Context, token string, remote RemoteLogout) error {
	user, ok := s.Lookup(token)
	if !ok {
		return nil
	}
	if remote != nil {
		if err := remote(WithCredential(ctx, token, user)); err != nil {
			s.logger.Warn("backend logout failed, clearing session anyway", slog.String("user", user.Email), slog.Any("error", err))
		}
	}
	return s.drop(ctx, token, "logout")
}

// Lookup reports the operator holding token.
func (s *Sessions) Lookup(token string) (Principal, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[token]
	return record.User, ok
}

// Count returns the number of open sessions.
func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Credential returns the token bound to ctx. Calls without a caller present the service
// token, else the latest login.
func (s *Sessions) Credential(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != "" {
		return token
	}
	if s.service != "" {
		return s.service
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recent
}

// Reject forgets token after the backend refused it.
func (s *Sessions) Reject(ctx context.Context, token string) {
	if _, ok := s.Lookup(token); !ok {
		return
	}
	clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.drop(clearCtx, token, "expired"); err != nil {
		s.logger.Error("session store delete failed", slog.Any("error", err))
	}
}

func (s *Sessions) drop(ctx context.Context, token, reason string) error {
	s.mu.Lock()
	record, ok := s.records[token]
	delete(s.records, token)
	if s.recent == token {
		s.recent = ""
		for other := range s.records {
			s.recent = other
			break
		}
	}
	s.mu.Unlock()

	err := s.store.Delete(ctx, token)
	if ok {
		s.logger.Info("session closed", slog.String("user", record.User.Email), slog.String("reason", reason))
	}
	return err
}
