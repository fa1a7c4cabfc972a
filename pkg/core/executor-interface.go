package core

import "context"

// Executor is the caller facing statement API: raw SQL execution, typed
// CRUD conveniences and cursor driven row access over the last result.
type Executor interface {
	// Query runs raw SQL. Row producing statements return their result set;
	// other statements return a nil set and no error on success.
	Query(ctx context.Context, sql string) (*RowSet, error)

	// SelectRows builds and runs a SELECT on tableName.
	SelectRows(ctx context.Context, tableName string, sel *Selection) (*RowSet, error)

	// InsertRow builds and runs an INSERT and returns the last insert id.
	InsertRow(ctx context.Context, tableName string, values Fields) (int64, error)

	// UpdateRows builds and runs an UPDATE filtered by where.
	UpdateRows(ctx context.Context, tableName string, values Fields, where any) error

	// DeleteRows builds and runs a DELETE filtered by where.
	DeleteRows(ctx context.Context, tableName string, where any) error

	// AutoInsertUpdate updates the rows matching where, or inserts values
	// when none match.
	AutoInsertUpdate(ctx context.Context, tableName string, values Fields, where any) error

	// Row reads the next row of the last result as a column keyed map.
	Row() (Row, error)

	// RowArray reads the next row of the last result shaped by rt.
	RowArray(rt ResultType) (Row, error)

	// Seek positions the cursor on row n of the last result.
	Seek(n int) ([]any, error)

	// RowCount returns the number of rows in the last result.
	RowCount() (int, error)

	// Error describes the failure recorded by the last operation.
	Error() string

	// ErrorNumber returns the code of the failure recorded by the last
	// operation, 0 when it succeeded.
	ErrorNumber() int
}
