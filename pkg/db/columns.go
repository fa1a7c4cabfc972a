package db

import (
	"context"
	"fmt"
	"strconv"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

// Column introspection works on the last result when table is empty.
// Otherwise it runs a probe statement against table; probes are real
// statements and count towards the query statistics, but they leave the
// last result and the cursor alone. Table and column names are embedded as
// given.

// probe runs a row producing statement outside of the cursor.
func (d *DB) probe(ctx context.Context, sql string) (*core.RowSet, error) {
	d.queryCount++
	d.logf("Executing probe SQL: %s", sql)
	set, err := d.engine.Query(ctx, sql)
	if err != nil {
		return nil, d.fail(err)
	}
	set.Release()
	return set, nil
}

// probeColumn runs a probe and returns the given column of every row as text.
func (d *DB) probeColumn(ctx context.Context, sql string, index int) ([]string, error) {
	d.queryCount++
	d.logf("Executing probe SQL: %s", sql)
	set, err := d.engine.Query(ctx, sql)
	if err != nil {
		return nil, d.fail(err)
	}
	defer set.Release()

	var out []string
	for {
		row, err := set.Fetch()
		if err != nil {
			break
		}
		if index >= len(row) {
			return nil, d.fail(core.ErrNoColumn)
		}
		out = append(out, core.ValueOf(row[index]).Text())
	}
	return out, nil
}

func (d *DB) lastColumns() ([]core.ColumnInfo, error) {
	if d.lastResult == nil {
		return nil, d.fail(core.ErrNoResults)
	}
	return d.lastResult.Columns(), nil
}

// GetColumnCount returns the number of columns of the last result or of
// table.
func (d *DB) GetColumnCount(ctx context.Context, table string) (int, error) {
	d.errs.Reset()
	if d.engine == nil {
		return 0, d.fail(core.ErrNoConnection)
	}
	if table == "" {
		cols, err := d.lastColumns()
		if err != nil {
			return 0, err
		}
		return len(cols), nil
	}
	set, err := d.probe(ctx, "SELECT * FROM "+table+" LIMIT 1")
	if err != nil {
		return 0, err
	}
	return set.NumColumns(), nil
}

// GetColumnDataType returns the engine type name of column, given by name or
// by position, in the last result or in table.
func (d *DB) GetColumnDataType(ctx context.Context, column, table string) (string, error) {
	d.errs.Reset()
	info, err := d.columnInfo(ctx, column, table)
	if err != nil {
		return "", err
	}
	return info.Type, nil
}

// GetColumnLength returns the declared length of column in the last result
// or in table. Engines that do not report lengths return 0.
func (d *DB) GetColumnLength(ctx context.Context, column, table string) (int64, error) {
	d.errs.Reset()
	info, err := d.columnInfo(ctx, column, table)
	if err != nil {
		return 0, err
	}
	return info.Length, nil
}

func (d *DB) columnInfo(ctx context.Context, column, table string) (core.ColumnInfo, error) {
	if d.engine == nil {
		return core.ColumnInfo{}, d.fail(core.ErrNoConnection)
	}

	if table == "" {
		cols, err := d.lastColumns()
		if err != nil {
			return core.ColumnInfo{}, err
		}
		id, err := d.resolveColumn(column, cols)
		if err != nil {
			return core.ColumnInfo{}, err
		}
		return cols[id], nil
	}

	if id, err := strconv.Atoi(column); err == nil {
		name, err := d.columnName(ctx, id, table)
		if err != nil {
			return core.ColumnInfo{}, err
		}
		column = name
	}
	set, err := d.probe(ctx, "SELECT "+column+" FROM "+table+" LIMIT 1")
	if err != nil {
		return core.ColumnInfo{}, err
	}
	if set.NumColumns() == 0 {
		return core.ColumnInfo{}, d.fail(core.ErrNoColumn)
	}
	return set.Columns()[0], nil
}

// resolveColumn finds a column by position or name.
func (d *DB) resolveColumn(column string, cols []core.ColumnInfo) (int, error) {
	if id, err := strconv.Atoi(column); err == nil {
		if id < 0 || id >= len(cols) {
			return 0, d.fail(core.ErrNoColumn)
		}
		return id, nil
	}
	for i, c := range cols {
		if c.Name == column {
			return i, nil
		}
	}
	return 0, d.fail(core.ErrColumnNotFound)
}

// GetColumnID returns the position of column in the last result or in
// table.
func (d *DB) GetColumnID(ctx context.Context, column, table string) (int, error) {
	d.errs.Reset()
	names, err := d.columnNames(ctx, table)
	if err != nil {
		return 0, err
	}
	for i, name := range names {
		if name == column {
			return i, nil
		}
	}
	return 0, d.fail(core.ErrColumnNotFound)
}

// GetColumnName returns the name of the column at position id in the last
// result or in table.
func (d *DB) GetColumnName(ctx context.Context, id int, table string) (string, error) {
	d.errs.Reset()
	return d.columnName(ctx, id, table)
}

func (d *DB) columnName(ctx context.Context, id int, table string) (string, error) {
	if d.engine == nil {
		return "", d.fail(core.ErrNoConnection)
	}

	var cols []core.ColumnInfo
	if table == "" {
		last, err := d.lastColumns()
		if err != nil {
			return "", err
		}
		cols = last
	} else {
		set, err := d.probe(ctx, "SELECT * FROM "+table+" LIMIT 1")
		if err != nil {
			return "", err
		}
		cols = set.Columns()
	}

	if id < 0 || id >= len(cols) {
		return "", d.fail(core.ErrNoColumn)
	}
	return cols[id].Name, nil
}

// GetColumnNames returns the column names of the last result or of table.
func (d *DB) GetColumnNames(ctx context.Context, table string) ([]string, error) {
	d.errs.Reset()
	return d.columnNames(ctx, table)
}

func (d *DB) columnNames(ctx context.Context, table string) ([]string, error) {
	if d.engine == nil {
		return nil, d.fail(core.ErrNoConnection)
	}
	if table == "" {
		if d.lastResult == nil {
			return nil, d.fail(core.ErrNoResults)
		}
		return d.lastResult.ColumnNames(), nil
	}
	query, nameIndex := d.engine.Dialect().ShowColumns(table)
	return d.probeColumn(ctx, query, nameIndex)
}

// GetColumnComments maps every column of table to its comment.
func (d *DB) GetColumnComments(ctx context.Context, table string) (map[string]string, error) {
	d.errs.Reset()
	if d.engine == nil {
		return nil, d.fail(core.ErrNoConnection)
	}
	query, nameIndex, commentIndex, ok := d.engine.Dialect().ShowFullColumns(table)
	if !ok {
		return nil, d.fail(fmt.Errorf("%w: column comments", core.ErrUnsupported))
	}

	names, err := d.probeColumn(ctx, query, nameIndex)
	if err != nil {
		return nil, err
	}
	comments, err := d.probeColumn(ctx, query, commentIndex)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(names))
	for i, name := range names {
		out[name] = comments[i]
	}
	return out, nil
}

// GetTables returns the tables of the current database, nil when there are
// none.
func (d *DB) GetTables(ctx context.Context) ([]string, error) {
	d.errs.Reset()
	if d.engine == nil {
		return nil, d.fail(core.ErrNoConnection)
	}
	tables, err := d.probeColumn(ctx, d.engine.Dialect().ShowTables(), 0)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}
	return tables, nil
}
