package db

import "github.com/asaidimu/sqlhelper/pkg/core"

// The cursor keeps two positions over the last result: the active row seen
// by callers and the data pointer of the result set. A statement producing
// rows leaves the active row at 0 (or -1 when empty). Sequential reads bump
// the active row before fetching at the data pointer, so after reading row
// i the active row is i+1.

// Row reads the next row of the last result keyed by column name.
func (d *DB) Row() (core.Row, error) {
	d.errs.Reset()
	return d.fetch(nil, core.Assoc)
}

// RowAt reads row n of the last result keyed by column name and leaves the
// data pointer after it.
func (d *DB) RowAt(n int) (core.Row, error) {
	d.errs.Reset()
	return d.fetch(&n, core.Assoc)
}

// RowArray reads the next row of the last result shaped by rt.
func (d *DB) RowArray(rt core.ResultType) (core.Row, error) {
	d.errs.Reset()
	return d.fetch(nil, rt)
}

// RowArrayAt reads row n of the last result shaped by rt.
func (d *DB) RowArrayAt(n int, rt core.ResultType) (core.Row, error) {
	d.errs.Reset()
	return d.fetch(&n, rt)
}

func (d *DB) fetch(index *int, rt core.ResultType) (core.Row, error) {
	if d.lastResult == nil {
		return nil, d.fail(core.ErrNoResults)
	}
	count := d.lastResult.NumRows()
	if index == nil {
		if d.activeRow > count {
			return nil, d.fail(core.ErrReadPastEnd)
		}
		d.activeRow++
	} else {
		if *index >= count || *index < 0 {
			return nil, d.fail(core.ErrRowRange)
		}
		d.activeRow = *index
		if _, err := d.seek(*index); err != nil {
			return nil, err
		}
	}

	values, err := d.lastResult.Fetch()
	if err != nil {
		return nil, d.fail(err)
	}
	return d.lastResult.Shape(values, rt), nil
}

// Records returns the last result set.
func (d *DB) Records() (*core.RowSet, error) {
	d.errs.Reset()
	if d.lastResult == nil {
		return nil, d.fail(core.ErrNoResults)
	}
	return d.lastResult, nil
}

// RecordsArray returns every row of the last result shaped by rt and
// rewinds the cursor.
func (d *DB) RecordsArray(rt core.ResultType) ([]core.Row, error) {
	d.errs.Reset()
	return d.recordsArray(rt)
}

func (d *DB) recordsArray(rt core.ResultType) ([]core.Row, error) {
	if d.lastResult == nil {
		d.activeRow = -1
		return nil, d.fail(core.ErrNoResults)
	}
	if d.lastResult.Released() {
		return nil, d.fail(core.ErrReleased)
	}
	count := d.lastResult.NumRows()
	if count == 0 {
		return []core.Row{}, nil
	}

	if err := d.lastResult.Seek(0); err != nil {
		return nil, d.fail(err)
	}
	rows := make([]core.Row, 0, count)
	for i := 0; i < count; i++ {
		values, err := d.lastResult.Fetch()
		if err != nil {
			return nil, d.fail(err)
		}
		rows = append(rows, d.lastResult.Shape(values, rt))
	}
	if err := d.lastResult.Seek(0); err != nil {
		return nil, d.fail(err)
	}
	d.activeRow = 0
	return rows, nil
}

// RowCount returns the number of rows of the last result.
func (d *DB) RowCount() (int, error) {
	d.errs.Reset()
	return d.rowCount()
}

func (d *DB) rowCount() (int, error) {
	if d.engine == nil {
		return 0, d.fail(core.ErrNoConnection)
	}
	if d.lastResult == nil {
		return 0, d.fail(core.ErrNoResults)
	}
	if d.lastResult.Released() {
		return 0, d.fail(core.ErrReleased)
	}
	return d.lastResult.NumRows(), nil
}

// Seek makes row n the active row and returns its values without consuming
// it: the next sequential read still starts at row n.
func (d *DB) Seek(n int) ([]any, error) {
	d.errs.Reset()
	return d.seek(n)
}

func (d *DB) seek(n int) ([]any, error) {
	count, err := d.rowCount()
	if err != nil {
		return nil, err
	}
	if n >= count || n < 0 {
		return nil, d.fail(core.ErrSeekRange)
	}

	d.activeRow = n
	if err := d.lastResult.Seek(n); err != nil {
		return nil, d.fail(err)
	}
	record, err := d.lastResult.Fetch()
	if err != nil {
		return nil, d.fail(err)
	}
	if err := d.lastResult.Seek(n); err != nil {
		return nil, d.fail(err)
	}
	return record, nil
}

// SeekPosition returns the active row, -1 when there is none.
func (d *DB) SeekPosition() int {
	return d.activeRow
}

// MoveFirst seeks to the first row.
func (d *DB) MoveFirst() error {
	d.errs.Reset()
	if _, err := d.seek(0); err != nil {
		return err
	}
	d.activeRow = 0
	return nil
}

// MoveLast seeks to the last row.
func (d *DB) MoveLast() error {
	d.errs.Reset()
	count, err := d.rowCount()
	if err != nil {
		return err
	}
	d.activeRow = count - 1
	_, err = d.seek(d.activeRow)
	return err
}

// BeginningOfSeek reports whether no row has been read past the first.
func (d *DB) BeginningOfSeek() (bool, error) {
	d.errs.Reset()
	if d.engine == nil {
		return false, d.fail(core.ErrNoConnection)
	}
	return d.activeRow < 1, nil
}

// EndOfSeek reports whether sequential reads have consumed every row.
func (d *DB) EndOfSeek() (bool, error) {
	d.errs.Reset()
	if d.engine == nil {
		return false, d.fail(core.ErrNoConnection)
	}
	count, err := d.rowCount()
	if err != nil {
		return false, err
	}
	return d.activeRow >= count, nil
}

// Release frees the last result set. Releasing it twice is an error; a DB
// without a result has nothing to release.
func (d *DB) Release() error {
	d.errs.Reset()
	return d.release()
}

func (d *DB) release() error {
	if d.lastResult == nil {
		return nil
	}
	if err := d.lastResult.Release(); err != nil {
		return d.fail(err)
	}
	return nil
}
