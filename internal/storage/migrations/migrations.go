// Package migrations holds the embedded sqlite schema and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var files embed.FS

// ErrNotMigrated is reported for a database no migration has touched.
var ErrNotMigrated = errors.New("schema has no version")

// Status is a database's schema version next to the newest embedded migration.
type Status struct {
	Version uint // 0 when no migration has run
	Latest  uint
	Dirty   bool
}

// Err explains why the schema cannot be used, or returns nil when it is current.
func (s Status) Err() error {
	switch {
	case s.Dirty:
		return fmt.Errorf("schema is dirty at version %d: a migration stopped part way", s.Version)
	case s.Version == 0:
		return ErrNotMigrated
	case s.Version < s.Latest:
		return fmt.Errorf("schema at version %d, %d migration(s) pending", s.Version, s.Latest-s.Version)
	case s.Version > s.Latest:
		return fmt.Errorf("schema version %d is newer than this binary supports (%d)", s.Version, s.Latest)
	}
	return nil
}

// Inspect reads the schema version of db without changing it.
func Inspect(db *sql.DB) (Status, error) {
	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}
	// Closing m would close db, which belongs to the caller.
	return inspect(m)
}

// Up applies every pending migration and returns the resulting status.
func Up(db *sql.DB) (Status, error) {
	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Status{}, fmt.Errorf("applying migrations: %w", err)
	}
	return inspect(m)
}

func inspect(m *migrate.Migrate) (Status, error) {
	latest, err := Latest()
	if err != nil {
		return Status{}, err
	}
	st := Status{Latest: latest}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return st, nil
	case err != nil:
		return Status{}, fmt.Errorf("reading schema version: %w", err)
	}
	st.Version, st.Dirty = version, dirty
	return st, nil
}

// Latest returns the highest version among the embedded migrations.
func Latest() (uint, error) {
	src, err := iofs.New(files, "files")
	if err != nil {
		return 0, fmt.Errorf("reading embedded migrations: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("reading embedded migrations: %w", err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("reading embedded migrations: %w", err)
		}
		v = next
	}
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "files")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("wrapping sqlite connection: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}
