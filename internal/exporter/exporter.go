// Package exporter copies one SQLite table into a delimited text file.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nsqlite/tblexport/internal/db"
	"github.com/nsqlite/tblexport/internal/log"
)

const (
	DefaultDatabase    = "inventory.db"
	DefaultOutput      = "final_table_for_powerbi.csv"
	DefaultTable       = "final_table"
	DefaultComma       = ','
	DefaultPreviewRows = 3
)

// Config represents the configuration for Export. Zero values fall
// back to the defaults above.
type Config struct {
	Logger log.Logger
	// Observer is notified while the export runs. Optional.
	Observer Observer

	Database string
	Driver   db.Driver
	Table    string
	Output   string
	// Comma is the field delimiter.
	Comma rune
	// OrderBy lists the columns rows are sorted by. When empty the
	// primary key is used.
	OrderBy []string
	// PreviewRows is how many leading rows are kept in Result.Preview.
	// Zero means DefaultPreviewRows, negative disables the preview.
	PreviewRows int
}

// Observer receives progress events from Export.
type Observer interface {
	// Connected is called once the database is open.
	Connected(database string)
	// Loaded is called once the query is running, before any row is
	// written.
	Loaded(table string, columns []string, total int)
	// RowWritten is called after each row with the running count.
	RowWritten(n int)
}

// Result describes a finished export.
type Result struct {
	ExportID string
	Database string
	Table    string
	// Path is the absolute path of the written file.
	Path     string
	Columns  []string
	Rows     int
	Bytes    int64
	Preview  [][]any
	Duration time.Duration
}

// SizeMiB returns the output size in mebibytes.
func (r Result) SizeMiB() float64 {
	return float64(r.Bytes) / (1024 * 1024)
}

func (c Config) withDefaults() Config {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.Comma == 0 {
		c.Comma = DefaultComma
	}
	if c.PreviewRows == 0 {
		c.PreviewRows = DefaultPreviewRows
	}
	if c.Observer == nil {
		c.Observer = noopObserver{}
	}
	return c
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Table) == "" {
		return NewError(KindInvalidConfig, "table name is blank", nil)
	}
	if !ValidDelimiter(c.Comma) {
		return NewError(KindInvalidConfig, fmt.Sprintf("invalid delimiter %q", c.Comma), nil)
	}
	return nil
}

// ValidDelimiter reports whether r can separate CSV fields.
func ValidDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' &&
		utf8.ValidRune(r) && r != utf8.RuneError
}

// Export copies every row of the configured table into the output
// file, header first, and returns what was written.
//
// The output file is replaced only when every row was written; on
// failure a pre-existing file is left as it was. The database
// connection is released on every path.
func Export(ctx context.Context, config Config) (result Result, err error) {
	config = config.withDefaults()
	if err := config.validate(); err != nil {
		return Result{}, err
	}

	started := time.Now()
	logger := config.Logger
	result = Result{
		ExportID: uuid.NewString(),
		Database: config.Database,
		Table:    config.Table,
	}

	result.Path, err = filepath.Abs(config.Output)
	if err != nil {
		return result, NewError(KindWriteFailed, "failed to resolve output path", err)
	}

	logger.InfoNs("exporter", "export started", log.KV{
		"export_id": result.ExportID,
		"database":  config.Database,
		"table":     config.Table,
		"output":    result.Path,
		"driver":    config.Driver.Value,
	})

	conn, err := db.Open(ctx, db.Config{
		Logger: logger,
		Path:   config.Database,
		Driver: config.Driver,
	})
	if err != nil {
		return result, classifyDBError(err, "failed to open database")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.ErrorNs("exporter", "error closing database", log.KV{"error": closeErr})
		}
	}()
	config.Observer.Connected(config.Database)

	table, err := conn.Inspect(ctx, config.Table)
	if err != nil {
		return result, classifyDBError(err, "failed to inspect table")
	}
	result.Table = table.Name

	cursor, err := conn.OpenCursor(ctx, table, config.OrderBy)
	if err != nil {
		return result, classifyDBError(err, "failed to query table")
	}
	defer func() {
		if closeErr := cursor.Close(); closeErr != nil {
			logger.ErrorNs("exporter", "error closing cursor", log.KV{"error": closeErr})
		}
	}()

	result.Columns = cursor.Columns
	config.Observer.Loaded(table.Name, cursor.Columns, cursor.Total)

	file, err := createCSVFile(result.Path, config.Comma)
	if err != nil {
		return result, NewError(KindWriteFailed, "failed to create output file", err)
	}
	defer file.Discard()

	if err := file.Write(cursor.Columns); err != nil {
		return result, NewError(KindWriteFailed, "failed to write header", err)
	}

	record := make([]string, len(cursor.Columns))
	for cursor.Next() {
		if err := ctx.Err(); err != nil {
			return result, NewError(KindCanceled, "export interrupted", err)
		}

		values := cursor.Values()
		for i, value := range values {
			record[i] = FormatValue(value)
		}
		if err := file.Write(record); err != nil {
			return result, NewError(KindWriteFailed, fmt.Sprintf("failed to write row %d", result.Rows+1), err)
		}

		if len(result.Preview) < config.PreviewRows {
			result.Preview = append(result.Preview, values)
		}
		result.Rows++
		config.Observer.RowWritten(result.Rows)
	}
	if err := cursor.Err(); err != nil {
		return result, classifyDBError(err, "failed to read rows")
	}

	result.Bytes, err = file.Commit()
	if err != nil {
		return result, NewError(KindWriteFailed, "failed to save output file", err)
	}
	result.Duration = time.Since(started)

	if result.Rows != cursor.Total {
		logger.WarnNs("exporter", "row count changed during export", log.KV{
			"expected": cursor.Total,
			"written":  result.Rows,
		})
	}

	logger.InfoNs("exporter", "export finished", log.KV{
		"export_id": result.ExportID,
		"rows":      result.Rows,
		"columns":   len(result.Columns),
		"bytes":     result.Bytes,
		"duration":  result.Duration.String(),
	})

	return result, nil
}

// classifyDBError wraps err with the kind matching its db sentinel.
func classifyDBError(err error, msg string) *Error {
	kind := KindQueryFailed
	switch {
	case errors.Is(err, db.ErrDatabaseNotFound):
		kind = KindDatabaseNotFound
	case errors.Is(err, db.ErrNotADatabase):
		kind = KindInvalidDatabase
	case errors.Is(err, db.ErrTableNotFound):
		kind = KindTableNotFound
	case errors.Is(err, db.ErrUnknownColumn):
		kind = KindSchemaMismatch
	}
	return NewError(kind, msg, err)
}

type noopObserver struct{}

func (noopObserver) Connected(string)             {}
func (noopObserver) Loaded(string, []string, int) {}
func (noopObserver) RowWritten(int)               {}
