// Package sqlite stores people in SQLite and exposes them as a chainable
// QuerySet.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/dqs/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the SQLite connection pool.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path and migrates it to
// the latest schema. When an existing file has pending migrations it is
// copied to path+".bak" before they run.
func NewDB(path string) (*DB, error) {
	log.Debug(log.CatDB, "Opening database", "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	backupPath := ""
	if _, err := os.Stat(path); err == nil {
		backupPath = path + ".bak"
	}

	dsn := "file:" + path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(backupPath); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info(log.CatDB, "Connected to database", "path", path)
	return db, nil
}

// NewMemoryDB opens a migrated in-memory database. The pool is limited to a
// single connection because every SQLite connection to ":memory:" gets its
// own database.
func NewMemoryDB() (*DB, error) {
	conn, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: ":memory:"}
	if err := db.migrate(""); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies every pending migration, first backing up to backupPath
// when it is set and something is pending. Closing the migrate instance would
// close conn, so only the source is closed.
func (db *DB) migrate(backupPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	driver, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	pending, err := hasPending(m, src)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if !pending {
		log.Debug(log.CatDB, "Schema up to date", "path", db.path)
		return nil
	}
	if backupPath != "" {
		if err := db.backup(backupPath); err != nil {
			return fmt.Errorf("backing up database: %w", err)
		}
		log.Info(log.CatDB, "Backed up database before migrating", "backup", backupPath)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.ErrorErr(log.CatDB, "Migration failed", err, "path", db.path)
		return fmt.Errorf("running migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		log.Debug(log.CatDB, "Schema ready", "version", version, "dirty", dirty)
	}
	return nil
}

// hasPending reports whether the source holds a migration newer than the
// applied schema version.
func hasPending(m *migrate.Migrate, src source.Driver) (bool, error) {
	latest, err := src.First()
	if err != nil {
		return false, err
	}
	for next, err := src.Next(latest); err == nil; next, err = src.Next(latest) {
		latest = next
	}

	current, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return current < latest, nil
}

// backup writes a consistent copy of the database to dst, replacing dst.
func (db *DB) backup(dst string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	_, err := db.conn.Exec("VACUUM INTO ?", dst)
	return err
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// People returns the repository for the people table.
func (db *DB) People() *PersonRepository {
	return newPersonRepository(db.conn)
}

// QuerySet returns an unfiltered QuerySet over the people table.
func (db *DB) QuerySet() QuerySet {
	return NewQuerySet(db.conn)
}
