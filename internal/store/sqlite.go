package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
)

// SQLiteStore implements Store on a single-table SQLite key-value
// space. Use ":memory:" for tests, a file path for persistence.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and if needed initializes) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS widget_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM widget_state WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing keys read as empty: the widget treats absence as a
		// first-run default, never as a failure.
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO widget_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Schedule(ctx context.Context, g schedule.Group) (string, error) {
	return s.get(ctx, scheduleKey(g))
}

func (s *SQLiteStore) SetSchedule(ctx context.Context, g schedule.Group, encoded string) error {
	return s.set(ctx, scheduleKey(g), encoded)
}

func (s *SQLiteStore) TomorrowSchedule(ctx context.Context, g schedule.Group) (string, error) {
	return s.get(ctx, tomorrowKey(g))
}

func (s *SQLiteStore) SetTomorrowSchedule(ctx context.Context, g schedule.Group, encoded string) error {
	return s.set(ctx, tomorrowKey(g), encoded)
}

func (s *SQLiteStore) LastUpdateDate(ctx context.Context) (string, error) {
	return s.get(ctx, keyLastUpdateDate)
}

func (s *SQLiteStore) LastUpdateTime(ctx context.Context) (string, error) {
	return s.get(ctx, keyLastUpdateTime)
}

func (s *SQLiteStore) SetLastUpdate(ctx context.Context, date, display string) error {
	if err := s.set(ctx, keyLastUpdateDate, date); err != nil {
		return err
	}
	return s.set(ctx, keyLastUpdateTime, display)
}

func (s *SQLiteStore) Loading(ctx context.Context, g schedule.Group) (bool, error) {
	v, err := s.get(ctx, loadingKey(g))
	if err != nil {
		return false, err
	}
	return parseBool(v), nil
}

func (s *SQLiteStore) SetLoading(ctx context.Context, g schedule.Group, v bool) error {
	return s.set(ctx, loadingKey(g), boolValue(v))
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
