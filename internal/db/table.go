package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nsqlite/tblexport/internal/log"
)

// TableInfo describes a table or view as stored in sqlite_master.
type TableInfo struct {
	// Name is the name as stored in the schema, which may differ in
	// case from the requested one.
	Name string
	// Type is either "table" or "view".
	Type    string
	Columns []Column
}

// Column is one row of pragma_table_info.
type Column struct {
	Name     string
	DeclType string
	// PrimaryKey is the 1-based position in the primary key, 0 if the
	// column is not part of it.
	PrimaryKey int
}

// Column returns the column with the given name, compared
// case-insensitively like SQLite does.
func (t TableInfo) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the primary key columns in key order.
func (t TableInfo) PrimaryKey() []Column {
	pk := []Column{}
	for _, col := range t.Columns {
		if col.PrimaryKey > 0 {
			pk = append(pk, col)
		}
	}
	sort.Slice(pk, func(i, j int) bool { return pk[i].PrimaryKey < pk[j].PrimaryKey })
	return pk
}

// Inspect looks up the table or view called name.
func (db *DB) Inspect(ctx context.Context, name string) (TableInfo, error) {
	info := TableInfo{}

	err := db.conn.QueryRowContext(
		ctx,
		`SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name = ? COLLATE NOCASE
		LIMIT 1`,
		name,
	).Scan(&info.Name, &info.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return TableInfo{}, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if err != nil {
		return TableInfo{}, fmt.Errorf("failed to read schema: %w", classifyError(err))
	}

	rows, err := db.conn.QueryContext(
		ctx,
		`SELECT name, type, pk FROM pragma_table_info(?) ORDER BY cid`,
		info.Name,
	)
	if err != nil {
		return TableInfo{}, fmt.Errorf("failed to read columns of %s: %w", info.Name, classifyError(err))
	}
	defer rows.Close()

	for rows.Next() {
		col := Column{}
		if err := rows.Scan(&col.Name, &col.DeclType, &col.PrimaryKey); err != nil {
			return TableInfo{}, fmt.Errorf("failed to scan column of %s: %w", info.Name, err)
		}
		info.Columns = append(info.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return TableInfo{}, fmt.Errorf("failed to read columns of %s: %w", info.Name, err)
	}

	db.logger.DebugNs("db", "table inspected", log.KV{
		"table":   info.Name,
		"type":    info.Type,
		"columns": len(info.Columns),
	})

	return info, nil
}

// orderClause returns the ORDER BY clause that makes a full scan of
// table deterministic.
//
// Explicit columns win, then the primary key, then _rowid_ for rowid
// tables. Views without explicit columns keep the engine order.
func orderClause(table TableInfo, orderBy []string) (string, error) {
	cols := []string{}

	switch {
	case len(orderBy) > 0:
		for _, name := range orderBy {
			col, ok := table.Column(name)
			if !ok {
				return "", fmt.Errorf("%w: %q in %s", ErrUnknownColumn, name, table.Name)
			}
			cols = append(cols, quoteIdentifier(col.Name))
		}
	case len(table.PrimaryKey()) > 0:
		for _, col := range table.PrimaryKey() {
			cols = append(cols, quoteIdentifier(col.Name))
		}
	case table.Type == "table":
		if _, shadowed := table.Column("_rowid_"); !shadowed {
			cols = append(cols, "_rowid_")
		}
	}

	if len(cols) == 0 {
		return "", nil
	}
	return " ORDER BY " + strings.Join(cols, ", "), nil
}

// selectList returns the result columns for a full scan of table.
//
// Both drivers rewrite values of columns declared as dates, times or
// booleans before they reach the caller. Such columns are selected as
// +"col", which returns the stored value with no declared type, and
// aliased back to their own name. Tables without them keep *.
func selectList(table TableInfo) string {
	typed := false
	for _, col := range table.Columns {
		if convertedDeclType(col.DeclType) {
			typed = true
			break
		}
	}
	if !typed {
		return "*"
	}

	cols := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		name := quoteIdentifier(col.Name)
		if convertedDeclType(col.DeclType) {
			name = "+" + name + " AS " + name
		}
		cols = append(cols, name)
	}
	return strings.Join(cols, ", ")
}

func convertedDeclType(declType string) bool {
	t := strings.ToLower(declType)
	return strings.Contains(t, "date") ||
		strings.Contains(t, "time") ||
		strings.Contains(t, "bool")
}
