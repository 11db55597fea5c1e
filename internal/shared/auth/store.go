package auth

import (
	"context"
	"sync"
)

// Principal is the operator identity kept next to the token.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Record is what a TokenStore persists between runs.
type Record struct {
	Token        string    `json:"token"`
	SessionToken string    `json:"session_token,omitempty"`
	User         Principal `json:"user"`
}

// TokenStore persists the session record. Load returns (nil, nil) when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, record Record) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu     sync.Mutex
	record *Record
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil, nil
	}
	copied := *s.record
	return &copied, nil
}

func (s *MemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &record
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}

var _ TokenStore = (*MemoryStore)(nil)

// RecordStore persists the credentials of every signed-in operator, keyed by token.
type RecordStore interface {
	LoadAll(ctx context.Context) ([]Record, error)
	Put(ctx context.Context, record Record) error
	Delete(ctx context.Context, token string) error
}

type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]Record)}
}

func (s *MemoryRecordStore) LoadAll(context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, nil
}

func (s *MemoryRecordStore) Put(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Token] = record
	return nil
}

func (s *MemoryRecordStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, token)
	return nil
}

var _ RecordStore = (*MemoryRecordStore)(nil)
