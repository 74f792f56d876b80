package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nsqlite/tblexport/internal/log"
)

// Cursor streams every row of one table inside a read transaction, so
// Total, Columns and the rows all describe the same snapshot.
type Cursor struct {
	tx   *sql.Tx
	rows *sql.Rows

	// Columns holds the result column names in query order.
	Columns []string
	// Total is the row count taken before the scan started.
	Total int

	values []any
	err    error
}

// OpenCursor selects every column of table, as listed by selectList,
// ordered as described by orderClause. The caller must Close the
// cursor.
func (db *DB) OpenCursor(
	ctx context.Context, table TableInfo, orderBy []string,
) (*Cursor, error) {
	order, err := orderClause(table, orderBy)
	if err != nil {
		return nil, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", classifyError(err))
	}

	cursor := &Cursor{tx: tx}
	from := " FROM " + quoteIdentifier(table.Name)

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*)"+from).Scan(&cursor.Total); err != nil {
		_ = cursor.Close()
		return nil, fmt.Errorf("failed to count rows of %s: %w", table.Name, classifyError(err))
	}

	query := "SELECT " + selectList(table) + from + order
	db.logger.DebugNs("db", "running query", log.KV{
		"query": query,
		"total": cursor.Total,
	})

	cursor.rows, err = tx.QueryContext(ctx, query)
	if err != nil {
		_ = cursor.Close()
		return nil, fmt.Errorf("failed to query %s: %w", table.Name, classifyError(err))
	}

	cursor.Columns, err = cursor.rows.Columns()
	if err != nil {
		_ = cursor.Close()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	return cursor, nil
}

// Next advances to the next row. It returns false at the end of the
// result set or on error; check Err afterwards.
func (c *Cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}

	values := make([]any, len(c.Columns))
	dest := make([]any, len(c.Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}

	c.values = values
	return true
}

// Values returns the current row. The slice is not reused by Next.
func (c *Cursor) Values() []any {
	return c.values
}

// Err returns the first error hit while iterating.
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if c.rows == nil {
		return nil
	}
	return c.rows.Err()
}

// Close releases the rows and ends the read transaction.
func (c *Cursor) Close() error {
	var errs []error

	if c.rows != nil {
		if err := c.rows.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close rows: %w", err))
		}
	}
	if c.tx != nil {
		if err := c.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, fmt.Errorf("failed to end read transaction: %w", err))
		}
	}

	return errors.Join(errs...)
}
