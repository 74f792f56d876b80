// Package db provides read-only access to the SQLite database an export
// is taken from.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/nsqlite/tblexport/internal/log"
)

var (
	// ErrDatabaseNotFound is returned when the database file does not exist.
	ErrDatabaseNotFound = errors.New("database file not found")
	// ErrNotADatabase is returned when the file exists but is not a
	// SQLite database.
	ErrNotADatabase = errors.New("file is not a database")
	// ErrTableNotFound is returned when no table or view has the
	// requested name.
	ErrTableNotFound = errors.New("table not found")
	// ErrUnknownColumn is returned when an ordering column does not
	// belong to the table.
	ErrUnknownColumn = errors.New("unknown column")
)

// DB is a read-only, single connection handle to a SQLite file.
type DB struct {
	logger log.Logger
	conn   *sql.DB
	path   string
	driver Driver
}

// Config represents the configuration for the Open function.
type Config struct {
	Logger log.Logger
	// Path is the path to the database file. It is never created.
	Path string
	// Driver selects the database/sql driver, DriverMattn by default.
	Driver Driver
}

// Open opens the database file at config.Path in read-only mode.
func Open(ctx context.Context, config Config) (*DB, error) {
	info, err := os.Stat(config.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, config.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotADatabase, config.Path)
	}

	driver := config.Driver
	if driver.Value == "" {
		driver = DriverMattn
	}

	conn, err := sql.Open(driver.Value, readOnlyDSN(config.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetConnMaxIdleTime(0)
	conn.SetConnMaxLifetime(0)
	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", classifyError(err))
	}

	config.Logger.DebugNs("db", "database opened", log.KV{
		"path":   config.Path,
		"driver": driver.Value,
	})

	return &DB{
		logger: config.Logger,
		conn:   conn,
		path:   config.Path,
		driver: driver,
	}, nil
}

// Path returns the path the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.logger.DebugNs("db", "database closed", log.KV{"path": db.path})
	return nil
}

// readOnlyDSN builds a URI filename that opens path without creating it.
func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + escaped + "?mode=ro"
}

// classifyError maps driver errors onto the package sentinels.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrNotADB {
		return fmt.Errorf("%w: %w", ErrNotADatabase, err)
	}

	// modernc.org/sqlite reports the same condition by message only.
	if strings.Contains(err.Error(), "file is not a database") {
		return fmt.Errorf("%w: %w", ErrNotADatabase, err)
	}

	return err
}

// quoteIdentifier quotes name for use as a SQLite identifier.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
