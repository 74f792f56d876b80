// Package dbtest builds SQLite fixture files for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

// Inventory is the schema and data of the canonical two row example.
var Inventory = []string{
	`CREATE TABLE final_table (
		id INTEGER PRIMARY KEY NOT NULL,
		qty INTEGER NOT NULL,
		name TEXT NOT NULL
	)`,
	`INSERT INTO final_table (id, qty, name) VALUES (2, 5, 'Gadget')`,
	`INSERT INTO final_table (id, qty, name) VALUES (1, 10, 'Widget')`,
}

// Create writes a new database file named name inside a fresh
// temporary directory, runs stmts against it and returns its path.
func Create(t testing.TB, name string, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	Exec(t, path, stmts...)
	return path
}

// Exec runs stmts against the database file at path, creating it if
// needed.
func Exec(t testing.TB, path string, stmts ...string) {
	t.Helper()

	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	// Force the file into existence even with no statements.
	require.NoError(t, conn.Ping())
	_, err = conn.Exec(`PRAGMA user_version = 1`)
	require.NoError(t, err)

	for _, s := range stmts {
		_, err := conn.Exec(s)
		require.NoError(t, err, s)
	}
}
