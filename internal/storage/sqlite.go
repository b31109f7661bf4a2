package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studydash/internal/dash"
	"studydash/internal/storage/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage keeps each slice as one row of the slices table.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ dash.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database at path (or ":memory:") and migrates it to the
// latest schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	st, err := migrations.Up(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if err := st.Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema unusable: %w", err)
	}

	return &SQLiteStorage{db: db, path: path, now: time.Now}, nil
}

// OpenConnection opens and configures a SQLite database connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; also keeps ":memory:" on one shared connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Get returns the stored JSON for key, or nil if the key has never been written.
func (s *SQLiteStorage) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM slices WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading slice %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put upserts the value for key.
func (s *SQLiteStorage) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO slices (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), s.now().UTC())
	if err != nil {
		return fmt.Errorf("writing slice %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written, or the zero time if it never was.
func (s *SQLiteStorage) UpdatedAt(key string) (time.Time, error) {
	var ts time.Time
	err := s.db.QueryRow("SELECT updated_at FROM slices WHERE key = ?", key).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("reading slice %s: %w", key, err)
	}
	return ts, nil
}

// Schema reports the database's migration status.
func (s *SQLiteStorage) Schema() (migrations.Status, error) {
	return migrations.Inspect(s.db)
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
