package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/asaidimu/sqlhelper/pkg/builder"
	"github.com/asaidimu/sqlhelper/pkg/core"
)

// Config controls a DB.
type Config struct {
	// Engine is an already connected engine. When set the DB starts
	// connected and Open is only needed to reconnect.
	Engine core.Engine

	// Opener connects a new engine on Open.
	Opener core.Opener

	// Database and Charset are selected right after Open when Database is
	// not empty.
	Database string
	Charset  string

	// Strict makes every recorded failure panic with the recorded error.
	Strict bool

	// Development appends the offending SQL to DyingMessage.
	Development bool

	// Debug logs every statement and the size of its result.
	Debug bool

	// Logger receives debug output and Kill messages. Defaults to
	// log.Default().
	Logger *log.Logger

	// Location is used to format dates. Defaults to UTC.
	Location *time.Location
}

// DB runs SQL through an engine and keeps the state of the last statement:
// its text, its result set with a cursor, the last insert id and a first
// error wins record. A DB is not safe for concurrent use.
type DB struct {
	cfg     Config
	engine  core.Engine
	builder *builder.Builder
	errs    core.ErrorState

	lastSQL       string
	lastResult    *core.RowSet
	lastInsertID  int64
	activeRow     int
	inTransaction bool
	queryCount    int

	timeStart time.Time
	timeDiff  time.Duration
}

var _ core.Executor = (*DB)(nil)

// New returns a DB for cfg. It is connected only when cfg.Engine is set.
func New(cfg Config) *DB {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	d := &DB{cfg: cfg, activeRow: -1, builder: builder.New(nil)}
	if cfg.Engine != nil {
		d.attach(cfg.Engine)
	}
	return d
}

func (d *DB) attach(engine core.Engine) {
	d.engine = engine
	d.builder = builder.New(engine.Escape)
}

func (d *DB) logf(format string, args ...any) {
	if d.cfg.Debug {
		d.cfg.Logger.Printf(format, args...)
	}
}

// fail records err in the error state and returns the recorded failure. In
// strict mode it panics with it instead.
func (d *DB) fail(err error) error {
	recorded := d.errs.Set(err)
	if d.cfg.Strict {
		panic(recorded)
	}
	return recorded
}

// Open connects a new engine through the configured Opener, closing the
// current one first, and selects the configured database.
func (d *DB) Open(ctx context.Context) error {
	d.errs.Reset()
	d.activeRow = -1

	if d.cfg.Opener == nil {
		return d.fail(fmt.Errorf("%w: no engine opener configured", core.ErrNoConnection))
	}
	if d.engine != nil {
		d.discardResult()
		if err := d.engine.Close(); err != nil {
			d.logf("Failed to close previous connection: %v", err)
		}
		d.engine = nil
		d.inTransaction = false
	}

	engine, err := d.cfg.Opener(ctx)
	if err != nil {
		return d.fail(err)
	}
	d.attach(engine)

	if d.cfg.Database != "" {
		return d.selectDatabase(ctx, d.cfg.Database, d.cfg.Charset)
	}
	return nil
}

// Close releases the last result and closes the engine.
func (d *DB) Close() error {
	d.errs.Reset()
	d.activeRow = -1
	if d.engine == nil {
		return nil
	}
	d.discardResult()
	if err := d.engine.Close(); err != nil {
		return d.fail(err)
	}
	d.engine = nil
	d.lastSQL = ""
	d.lastResult = nil
	d.inTransaction = false
	return nil
}

// IsConnected reports whether an engine is attached.
func (d *DB) IsConnected() bool {
	return d.engine != nil
}

// SelectDatabase switches the current database and, when charset (or the
// configured charset) is not empty, the character set.
func (d *DB) SelectDatabase(ctx context.Context, database, charset string) error {
	d.errs.Reset()
	return d.selectDatabase(ctx, database, charset)
}

func (d *DB) selectDatabase(ctx context.Context, database, charset string) error {
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	if charset == "" {
		charset = d.cfg.Charset
	}
	queries, ok := d.engine.Dialect().UseDatabase(database, charset)
	if !ok {
		return d.fail(fmt.Errorf("%w: select database", core.ErrUnsupported))
	}
	for _, q := range queries {
		d.logf("Executing SQL: %s", q)
		if _, err := d.engine.Exec(ctx, q); err != nil {
			return d.fail(err)
		}
	}
	return nil
}

// Query runs raw SQL. Statements producing rows return their result set,
// which becomes the cursor's result; other statements return a nil set. The
// previous result set is released first.
func (d *DB) Query(ctx context.Context, sql string) (*core.RowSet, error) {
	d.errs.Reset()
	return d.query(ctx, sql)
}

func (d *DB) query(ctx context.Context, sql string) (*core.RowSet, error) {
	if d.engine == nil {
		return nil, d.fail(core.ErrNoConnection)
	}
	d.lastSQL = sql
	d.queryCount++
	d.discardResult()
	d.logf("Executing SQL: %s", sql)

	kind := core.Classify(sql)
	if kind == core.StatementRows {
		set, err := d.engine.Query(ctx, sql)
		if err != nil {
			d.activeRow = -1
			return nil, d.fail(err)
		}
		d.lastResult = set
		d.lastInsertID = 0
		d.activeRow = -1
		if set.NumRows() > 0 {
			d.activeRow = 0
		}
		d.logf("Fetched %d rows.", set.NumRows())
		return set, nil
	}

	res, err := d.engine.Exec(ctx, sql)
	d.activeRow = -1
	if err != nil {
		return nil, d.fail(err)
	}
	if kind == core.StatementInsert {
		d.lastInsertID = res.LastInsertID
	}
	d.logf("Affected %d rows.", res.RowsAffected)
	return nil, nil
}

// discardResult releases the current result set before it is replaced.
func (d *DB) discardResult() {
	if d.lastResult == nil {
		return
	}
	if !d.lastResult.Released() {
		d.logf("Releasing unreleased result set of: %s", d.lastSQL)
		d.lastResult.Release()
	}
	d.lastResult = nil
}

// QueryTimed runs Query between TimerStart and TimerStop.
func (d *DB) QueryTimed(ctx context.Context, sql string) (*core.RowSet, error) {
	d.TimerStart()
	set, err := d.Query(ctx, sql)
	d.TimerStop()
	return set, err
}

// QueryArray runs sql and returns every row shaped by rt.
func (d *DB) QueryArray(ctx context.Context, sql string, rt core.ResultType) ([]core.Row, error) {
	d.errs.Reset()
	if _, err := d.query(ctx, sql); err != nil {
		return nil, err
	}
	return d.allRows(rt)
}

// QuerySingleRow runs sql and returns its first row keyed by column name, or
// nil when there is none.
func (d *DB) QuerySingleRow(ctx context.Context, sql string) (core.Row, error) {
	return d.QuerySingleRowArray(ctx, sql, core.Assoc)
}

// QuerySingleRowArray runs sql and returns its first row shaped by rt, or nil
// when there is none.
func (d *DB) QuerySingleRowArray(ctx context.Context, sql string, rt core.ResultType) (core.Row, error) {
	d.errs.Reset()
	if _, err := d.query(ctx, sql); err != nil {
		return nil, err
	}
	return d.firstRow(rt)
}

// QuerySingleValue runs sql and returns the first column of its first row,
// or nil when there is none.
func (d *DB) QuerySingleValue(ctx context.Context, sql string) (any, error) {
	d.errs.Reset()
	if _, err := d.query(ctx, sql); err != nil {
		return nil, err
	}
	return d.firstValue()
}

// HasRecords reports whether the last result, or the result of sql when it
// is not empty, has rows.
func (d *DB) HasRecords(ctx context.Context, sql string) (bool, error) {
	d.errs.Reset()
	if sql != "" {
		if _, err := d.query(ctx, sql); err != nil {
			return false, err
		}
	}
	n, err := d.rowCount()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) allRows(rt core.ResultType) ([]core.Row, error) {
	if d.lastResult == nil || d.lastResult.NumRows() == 0 {
		return []core.Row{}, nil
	}
	return d.recordsArray(rt)
}

func (d *DB) firstRow(rt core.ResultType) (core.Row, error) {
	if d.lastResult == nil || d.lastResult.NumRows() == 0 {
		return nil, nil
	}
	return d.fetch(nil, rt)
}

func (d *DB) firstValue() (any, error) {
	if d.lastResult == nil || d.lastResult.NumRows() == 0 || d.lastResult.NumColumns() == 0 {
		return nil, nil
	}
	row, err := d.fetch(nil, core.Num)
	if err != nil {
		return nil, err
	}
	return row["0"], nil
}

// Format renders v as a literal of type t with the escaping rules of the
// attached engine.
func (d *DB) Format(v any, t core.Type) string {
	f := core.Formatter{Location: d.cfg.Location}
	if d.engine != nil {
		f.Escape = d.engine.Escape
	}
	return f.Format(core.ValueOf(v), t)
}

// GetLastInsertID returns the id generated by the last INSERT, or 0 after a
// statement producing rows.
func (d *DB) GetLastInsertID() int64 {
	return d.lastInsertID
}

// GetLastSQL returns the text of the last statement run through Query.
func (d *DB) GetLastSQL() string {
	return d.lastSQL
}

// Error describes the failure recorded by the last operation.
func (d *DB) Error() string {
	return d.errs.Error()
}

// ErrorNumber returns the code of the failure recorded by the last
// operation, 0 when it succeeded.
func (d *DB) ErrorNumber() int {
	return d.errs.Number()
}

// Err returns the failure recorded by the last operation.
func (d *DB) Err() error {
	return d.errs.Err()
}
