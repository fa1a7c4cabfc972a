package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/glebarez/go-sqlite" // registers the pure Go "sqlite" driver
	"github.com/mattn/go-sqlite3"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

const (
	// DriverCgo is the driver name registered by mattn/go-sqlite3.
	DriverCgo = "sqlite3"
	// DriverPure is the driver name registered by glebarez/go-sqlite.
	DriverPure = "sqlite"

	// DefaultDSN opens a private in-memory database.
	DefaultDSN = ":memory:"
)

// Config controls how an engine connects.
type Config struct {
	// Driver is the database/sql driver name. Defaults to DriverCgo.
	Driver string

	// DSN is the data source name handed to the driver. Defaults to
	// DefaultDSN.
	DSN string
}

// SqliteEngine implements core.Engine on a single pinned database/sql
// connection, so transaction statements and session state apply to every
// statement it runs.
type SqliteEngine struct {
	db     *sql.DB
	conn   *sql.Conn
	driver string
}

var _ core.Engine = (*SqliteEngine)(nil)

// Open connects with cfg and pins one connection.
func Open(ctx context.Context, cfg Config) (*SqliteEngine, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverCgo
	}
	if cfg.DSN == "" {
		cfg.DSN = DefaultDSN
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, wrapError(fmt.Errorf("failed to open database: %w", err))
	}
	engine, err := NewSqliteEngine(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	engine.driver = cfg.Driver
	return engine, nil
}

// NewOpener returns a core.Opener connecting with cfg.
func NewOpener(cfg Config) core.Opener {
	return func(ctx context.Context) (core.Engine, error) {
		return Open(ctx, cfg)
	}
}

// NewSqliteEngine pins a connection of an already opened pool. The engine
// owns db from then on and closes it on Close.
func NewSqliteEngine(ctx context.Context, db *sql.DB) (*SqliteEngine, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, wrapError(fmt.Errorf("failed to acquire connection: %w", err))
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, wrapError(fmt.Errorf("failed to reach database: %w", err))
	}
	return &SqliteEngine{db: db, conn: conn}, nil
}

// Query runs a row producing statement and fetches every row.
func (e *SqliteEngine) Query(ctx context.Context, query string) (*core.RowSet, error) {
	rows, err := e.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	set, err := readRows(rows)
	if err != nil {
		return nil, wrapError(err)
	}
	return set, nil
}

// Exec runs a statement without rows.
func (e *SqliteEngine) Exec(ctx context.Context, query string) (core.ExecResult, error) {
	res, err := e.conn.ExecContext(ctx, query)
	if err != nil {
		return core.ExecResult{}, wrapError(err)
	}

	var out core.ExecResult
	if out.LastInsertID, err = res.LastInsertId(); err != nil {
		return core.ExecResult{}, wrapError(fmt.Errorf("failed to read last insert id: %w", err))
	}
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		return core.ExecResult{}, wrapError(fmt.Errorf("failed to read affected rows: %w", err))
	}
	return out, nil
}

// Escape doubles single quotes, the only escape SQLite string literals know.
func (e *SqliteEngine) Escape(s string) string {
	return Escape(s)
}

// Escape doubles single quotes.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Dialect returns the SQLite introspection statements.
func (e *SqliteEngine) Dialect() core.Dialect { return Dialect{} }

// Stats reports pool statistics of the underlying database handle.
func (e *SqliteEngine) Stats(ctx context.Context) (map[string]string, error) {
	if err := e.conn.PingContext(ctx); err != nil {
		return nil, wrapError(err)
	}
	st := e.db.Stats()
	return map[string]string{
		"Driver":           e.driver,
		"Open Connections": strconv.Itoa(st.OpenConnections),
		"In Use":           strconv.Itoa(st.InUse),
		"Idle":             strconv.Itoa(st.Idle),
		"Wait Count":       strconv.FormatInt(st.WaitCount, 10),
	}, nil
}

// Close releases the pinned connection and the pool.
func (e *SqliteEngine) Close() error {
	connErr := e.conn.Close()
	dbErr := e.db.Close()
	if err := errors.Join(connErr, dbErr); err != nil {
		return wrapError(err)
	}
	return nil
}

// readRows reads all rows from a sql.Rows result into a core.RowSet.
func readRows(rows *sql.Rows) (*core.RowSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	infos := make([]core.ColumnInfo, len(columns))
	for i, col := range columns {
		infos[i] = core.ColumnInfo{Name: col, Type: columnTypes[i].DatabaseTypeName()}
		if length, ok := columnTypes[i].Length(); ok {
			infos[i].Length = length
		}
	}

	var results [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, val := range values {
			values[i] = convertValue(infos[i].Type, val)
		}
		results = append(results, values)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return core.NewRowSet(infos, results), nil
}

func convertValue(dbType string, val any) any {
	if val == nil {
		return nil
	}
	switch dbType {
	case "BOOLEAN": // SQLite often stores booleans as INTEGER (0 or 1)
		if intVal, ok := val.(int64); ok {
			return intVal != 0
		}
	case "BLOB":
		return val
	}
	// database/sql returns []byte for TEXT with some drivers
	if byteVal, ok := val.([]byte); ok {
		return string(byteVal)
	}
	return val
}

type codedError interface {
	Code() int
}

// wrapError turns a driver failure into a core.Error carrying the SQLite
// result code when the driver reports one.
func wrapError(err error) error {
	code := core.CodeGeneric
	var cgoErr sqlite3.Error
	var pureErr codedError
	switch {
	case errors.As(err, &cgoErr):
		code = int(cgoErr.Code)
	case errors.As(err, &pureErr):
		code = pureErr.Code()
	}
	return &core.Error{Message: err.Error(), Code: code, Err: err}
}
