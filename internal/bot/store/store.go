// Package store persists named patterns in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// MaxKeyLength in runes
const MaxKeyLength = 64

// Record is a saved pattern
type Record struct {
	ID         string     `json:"id" yaml:"id"`
	Key        string     `json:"key" yaml:"key"`
	Pattern    string     `json:"pattern" yaml:"pattern"`
	UserID     string     `json:"user_id" yaml:"user_id"`
	UserName   string     `json:"user_name" yaml:"user_name"`
	UseCount   int64      `json:"use_count" yaml:"use_count"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" yaml:"last_used_at,omitempty"`
}

// PatternStore defines the interface for pattern persistence
type PatternStore interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, key string) (*Record, error)
	Remove(ctx context.Context, key, userID string) (bool, error)
	List(ctx context.Context, limit int) ([]*Record, error)
	RecordUse(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// SQLiteStore implements PatternStore using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/rexbot.db",
	}
}

// New opens or creates the database at cfg.Path
func New(cfg Config) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS patterns (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		pattern TEXT NOT NULL,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		use_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_used_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_patterns_user ON patterns(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// ValidateKey checks that key is usable as a pattern name
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidKey)
	}
	if n := utf8.RuneCountInString(key); n > MaxKeyLength {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrInvalidKey, n, MaxKeyLength)
	}
	if strings.IndexFunc(key, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("%w: contains whitespace", ErrInvalidKey)
	}
	return nil
}

// Save stores a new record. ID and CreatedAt are filled in when empty.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := ValidateKey(rec.Key); err != nil {
		return err
	}
	if rec.Pattern == "" {
		return ErrMissingPattern
	}
	if rec.UserID == "" {
		return ErrMissingOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patterns (id, key, pattern, user_id, user_name, use_count, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, rec.ID, rec.Key, rec.Pattern, rec.UserID, rec.UserName, rec.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, rec.Key)
		}
		return fmt.Errorf("failed to save pattern: %w", err)
	}

	return nil
}

// Get retrieves a record by key
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, key, pattern, user_id, user_name, use_count, created_at, last_used_at
		FROM patterns WHERE key = ?
	`, key)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get pattern: %w", err)
	}
	return rec, nil
}

// Remove deletes the record if it belongs to userID. It reports whether a
// record was deleted.
func (s *SQLiteStore) Remove(ctx context.Context, key, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM patterns WHERE key = ? AND user_id = ?`, key, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove pattern: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove pattern: %w", err)
	}
	return rows > 0, nil
}

// List returns records ordered by key. limit <= 0 returns all records.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, pattern, user_id, user_name, use_count, created_at, last_used_at
		FROM patterns ORDER BY key LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}

	return records, nil
}

// RecordUse increments the use counter of key
func (s *SQLiteStore) RecordUse(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE patterns SET use_count = use_count + 1, last_used_at = ? WHERE key = ?
	`, time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("failed to record use: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record use: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// Statistics returns store statistics
func (s *SQLiteStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var patterns, owners int64
	var uses sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id), SUM(use_count) FROM patterns
	`).Scan(&patterns, &owners, &uses)
	if err != nil {
		return nil, fmt.Errorf("failed to read statistics: %w", err)
	}

	return map[string]interface{}{
		"patterns": patterns,
		"owners":   owners,
		"uses":     uses.Int64,
	}, nil
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var lastUsed sql.NullTime

	if err := row.Scan(&rec.ID, &rec.Key, &rec.Pattern, &rec.UserID, &rec.UserName,
		&rec.UseCount, &rec.CreatedAt, &lastUsed); err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		rec.LastUsedAt = &t
	}
	return &rec, nil
}

var _ PatternStore = (*SQLiteStore)(nil)
