package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "people.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
}

// TestNewDB_RunsMigrations verifies that the people table exists after NewDB.
func TestNewDB_RunsMigrations(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	defer db.Close()

	var tableName string
	err = db.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='people'",
	).Scan(&tableName)
	require.NoError(t, err)
	require.Equal(t, "people", tableName)

	var version int
	err = db.conn.QueryRow("SELECT version FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	require.Equal(t, 1, version)
}

// TestNewDB_NoBackupWhenUpToDate verifies that reopening a migrated database
// leaves no .bak copy behind.
func TestNewDB_NoBackupWhenUpToDate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "people.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec(
		"INSERT INTO people (guid, name, gender, created_at) VALUES (?, ?, ?, ?)",
		"guid-1", "Ann", 2, 1000,
	)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	_, err = os.Stat(dbPath + ".bak")
	require.True(t, os.IsNotExist(err), "up-to-date database should not be backed up")

	var count int
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM people").Scan(&count))
	require.Equal(t, 1, count, "migrations must be idempotent")
}

// TestNewDB_PreMigrationBackup verifies that an existing database with
// pending migrations is copied to .bak before they run.
func TestNewDB_PreMigrationBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "people.db")

	legacy, err := sql.Open("sqlite3", "file:"+dbPath)
	require.NoError(t, err)
	_, err = legacy.Exec("CREATE TABLE notes (body TEXT)")
	require.NoError(t, err)
	_, err = legacy.Exec("INSERT INTO notes (body) VALUES ('kept')")
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	bak, err := sql.Open("sqlite3", "file:"+dbPath+".bak")
	require.NoError(t, err)
	defer bak.Close()

	var body string
	require.NoError(t, bak.QueryRow("SELECT body FROM notes").Scan(&body))
	require.Equal(t, "kept", body)

	var tables int
	require.NoError(t, bak.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='people'",
	).Scan(&tables))
	require.Zero(t, tables, "backup must predate the migration")
}

// TestNewDB_Pragmas verifies WAL mode, foreign keys and busy timeout.
func TestNewDB_Pragmas(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout)
}

// TestDB_Close verifies that the connection closes cleanly.
func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.Error(t, db.conn.Ping())
}

// TestDB_Connection verifies that Connection returns the underlying *sql.DB.
func TestDB_Connection(t *testing.T) {
	db := newTestDB(t)

	conn := db.Connection()
	require.IsType(t, (*sql.DB)(nil), conn)
	require.NoError(t, conn.Ping())
}

// TestNewDB_InvalidPath verifies that NewDB fails when the directory cannot be created.
func TestNewDB_InvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewDB(filepath.Join(blocker, "people.db"))
	require.Error(t, err)
}

func TestNewMemoryDB_Isolated(t *testing.T) {
	db1 := newTestDB(t)
	db2 := newTestDB(t)

	_, err := db1.conn.Exec("INSERT INTO people (guid, name, gender, created_at) VALUES ('g', 'Ann', 2, 0)")
	require.NoError(t, err)

	var count int
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM people").Scan(&count))
	require.Zero(t, count)
}
