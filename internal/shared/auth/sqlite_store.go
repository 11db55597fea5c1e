package auth

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const sessionKey = "session"

// SQLiteStore keeps the single session record in a key/value metadata table and the
// gateway's per-operator records in operator_sessions, so both survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at dsn and applies migrations.
func OpenSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("session migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("session migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply session migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Record, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, sessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", sessionKey, err)
	}
	var record Record
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return &record, nil
}

func (s *SQLiteStore) Save(ctx context.Context, record Record) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, sessionKey, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", sessionKey, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, sessionKey); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", sessionKey, err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM operator_sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operator sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan operator session: %w", err)
		}
		var record Record
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, fmt.Errorf("decode stored session: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Put(ctx context.Context, record Record) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO operator_sessions (token, value) VALUES (?, ?)
		ON CONFLICT(token) DO UPDATE SET value = excluded.value
	`, record.Token, value)
	if err != nil {
		return fmt.Errorf("failed to store operator session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM operator_sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete operator session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var (
	_ TokenStore  = (*SQLiteStore)(nil)
	_ RecordStore = (*SQLiteStore)(nil)
)
