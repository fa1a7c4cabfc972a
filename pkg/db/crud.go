package db

import (
	"context"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

// SelectRows builds a SELECT on table and runs it.
func (d *DB) SelectRows(ctx context.Context, table string, sel *core.Selection) (*core.RowSet, error) {
	d.errs.Reset()
	return d.selectRows(ctx, table, sel)
}

func (d *DB) selectRows(ctx context.Context, table string, sel *core.Selection) (*core.RowSet, error) {
	if d.engine == nil {
		return nil, d.fail(core.ErrNoConnection)
	}
	sql, err := d.builder.BuildSelect(table, sel)
	if err != nil {
		return nil, d.fail(err)
	}
	return d.query(ctx, sql)
}

// SelectTable selects every row of table.
func (d *DB) SelectTable(ctx context.Context, table string) (*core.RowSet, error) {
	return d.SelectRows(ctx, table, nil)
}

// SelectArray selects rows of table and returns them shaped by rt.
func (d *DB) SelectArray(ctx context.Context, table string, sel *core.Selection, rt core.ResultType) ([]core.Row, error) {
	d.errs.Reset()
	if _, err := d.selectRows(ctx, table, sel); err != nil {
		return nil, err
	}
	return d.allRows(rt)
}

// SelectSingleRow selects rows of table and returns the first one keyed by
// column name, or nil when there is none.
func (d *DB) SelectSingleRow(ctx context.Context, table string, sel *core.Selection) (core.Row, error) {
	return d.SelectSingleRowArray(ctx, table, sel, core.Assoc)
}

// SelectSingleRowArray selects rows of table and returns the first one
// shaped by rt, or nil when there is none.
func (d *DB) SelectSingleRowArray(ctx context.Context, table string, sel *core.Selection, rt core.ResultType) (core.Row, error) {
	d.errs.Reset()
	if _, err := d.selectRows(ctx, table, sel); err != nil {
		return nil, err
	}
	return d.firstRow(rt)
}

// SelectSingleValue selects rows of table and returns the first column of
// the first row, or nil when there is none.
func (d *DB) SelectSingleValue(ctx context.Context, table string, sel *core.Selection) (any, error) {
	d.errs.Reset()
	if _, err := d.selectRows(ctx, table, sel); err != nil {
		return nil, err
	}
	return d.firstValue()
}

// InsertRow inserts values into table and returns the generated id.
func (d *DB) InsertRow(ctx context.Context, table string, values core.Fields) (int64, error) {
	d.errs.Reset()
	return d.insertRow(ctx, table, values)
}

func (d *DB) insertRow(ctx context.Context, table string, values core.Fields) (int64, error) {
	if d.engine == nil {
		return 0, d.fail(core.ErrNoConnection)
	}
	sql, err := d.builder.BuildInsert(table, values)
	if err != nil {
		return 0, d.fail(err)
	}
	if _, err := d.query(ctx, sql); err != nil {
		return 0, err
	}
	return d.lastInsertID, nil
}

// UpdateRows sets values on the rows of table matching where. A nil where
// updates every row.
func (d *DB) UpdateRows(ctx context.Context, table string, values core.Fields, where any) error {
	d.errs.Reset()
	return d.updateRows(ctx, table, values, where)
}

func (d *DB) updateRows(ctx context.Context, table string, values core.Fields, where any) error {
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	sql, err := d.builder.BuildUpdate(table, values, where)
	if err != nil {
		return d.fail(err)
	}
	_, err = d.query(ctx, sql)
	return err
}

// DeleteRows deletes the rows of table matching where. A nil where deletes
// every row.
func (d *DB) DeleteRows(ctx context.Context, table string, where any) error {
	d.errs.Reset()
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	sql, err := d.builder.BuildDelete(table, where)
	if err != nil {
		return d.fail(err)
	}
	_, err = d.query(ctx, sql)
	return err
}

// AutoInsertUpdate updates the rows of table matching where, or inserts
// values when none match.
func (d *DB) AutoInsertUpdate(ctx context.Context, table string, values core.Fields, where any) error {
	d.errs.Reset()
	set, err := d.selectRows(ctx, table, &core.Selection{Where: where})
	if err != nil {
		return err
	}
	if set.NumRows() > 0 {
		return d.updateRows(ctx, table, values, where)
	}
	_, err = d.insertRow(ctx, table, values)
	return err
}

// TruncateTable removes every row of table.
func (d *DB) TruncateTable(ctx context.Context, table string) error {
	d.errs.Reset()
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	sql := d.engine.Dialect().Truncate(core.Backquote(d.engine.Escape(table)))
	_, err := d.query(ctx, sql)
	return err
}
