package core

import (
	"context"
	"strconv"
)

// Engine is the external database collaborator. It runs SQL text on one
// connection and reports results; it never builds SQL itself.
type Engine interface {
	// Query runs a row producing statement and returns the fully fetched
	// result set.
	Query(ctx context.Context, query string) (*RowSet, error)

	// Exec runs a statement that does not return rows.
	Exec(ctx context.Context, query string) (ExecResult, error)

	// Escape escapes text for a quoted string literal of this engine.
	Escape(s string) string

	// Dialect returns the engine specific probe statements.
	Dialect() Dialect

	// Stats returns engine statistics as name/value pairs.
	Stats(ctx context.Context) (map[string]string, error)

	// Close releases the connection.
	Close() error
}

// Opener connects to a database and returns a ready Engine.
type Opener func(ctx context.Context) (Engine, error)

// Dialect supplies the statements used for schema introspection and
// database selection.
type Dialect interface {
	// ShowColumns lists the columns of table, one row per column, with the
	// column name at position nameIndex.
	ShowColumns(table string) (query string, nameIndex int)

	// ShowFullColumns is ShowColumns with column comments at commentIndex.
	// ok is false when the engine keeps no comments.
	ShowFullColumns(table string) (query string, nameIndex, commentIndex int, ok bool)

	// ShowTables lists the tables of the current database in the first column.
	ShowTables() string

	// Truncate removes every row of the already quoted table.
	Truncate(quotedTable string) string

	// UseDatabase returns the statements that switch database and character
	// set. ok is false when the engine cannot switch databases.
	UseDatabase(database, charset string) (queries []string, ok bool)
}

// ExecResult mirrors what the engine reports for a statement without rows.
type ExecResult struct {
	// LastInsertID is the ID of the last inserted row, when available.
	LastInsertID int64
	// RowsAffected is the number of rows affected by the statement.
	RowsAffected int64
}

// ColumnInfo describes one column of a result set.
type ColumnInfo struct {
	Name   string
	Type   string
	Length int64
}

// RowSet is a fetched result set with a data pointer. Fetch reads at the
// pointer and advances it; Seek moves it. A RowSet must be released once and
// only once.
type RowSet struct {
	columns  []ColumnInfo
	rows     [][]any
	pos      int
	released bool
}

// NewRowSet wraps fetched rows. Every row must have one value per column.
func NewRowSet(columns []ColumnInfo, rows [][]any) *RowSet {
	return &RowSet{columns: columns, rows: rows}
}

// Columns returns the column descriptions.
func (r *RowSet) Columns() []ColumnInfo { return r.columns }

// ColumnNames returns the column names in result order.
func (r *RowSet) ColumnNames() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the number of rows.
func (r *RowSet) NumRows() int { return len(r.rows) }

// NumColumns returns the number of columns.
func (r *RowSet) NumColumns() int { return len(r.columns) }

// Seek moves the data pointer to row n.
func (r *RowSet) Seek(n int) error {
	if r.released {
		return ErrReleased
	}
	if n < 0 || n >= len(r.rows) {
		return ErrSeekRange
	}
	r.pos = n
	return nil
}

// Fetch returns the row at the data pointer and advances the pointer.
func (r *RowSet) Fetch() ([]any, error) {
	if r.released {
		return nil, ErrReleased
	}
	if r.pos >= len(r.rows) {
		return nil, ErrNoMoreRows
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

// Release frees the rows. Releasing twice is an error.
func (r *RowSet) Release() error {
	if r.released {
		return ErrReleased
	}
	r.released = true
	r.rows = nil
	return nil
}

// Released reports whether Release has been called.
func (r *RowSet) Released() bool { return r.released }

// Shape keys a fetched row according to rt.
func (r *RowSet) Shape(values []any, rt ResultType) Row {
	row := make(Row, len(values)*2)
	for i, v := range values {
		if rt == Assoc || rt == Both {
			if i < len(r.columns) {
				row[r.columns[i].Name] = v
			}
		}
		if rt == Num || rt == Both {
			row[strconv.Itoa(i)] = v
		}
	}
	return row
}
