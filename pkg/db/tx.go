package db

import (
	"context"
	"fmt"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

// TransactionBegin starts a transaction. Transactions do not nest.
func (d *DB) TransactionBegin(ctx context.Context) error {
	d.errs.Reset()
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	if d.inTransaction {
		return d.fail(core.ErrInTransaction)
	}
	if err := d.exec(ctx, "BEGIN"); err != nil {
		return d.fail(err)
	}
	d.inTransaction = true
	return nil
}

// TransactionEnd commits the current transaction. A failed commit leaves the
// transaction open so it can still be rolled back.
func (d *DB) TransactionEnd(ctx context.Context) error {
	d.errs.Reset()
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	if !d.inTransaction {
		return d.fail(core.ErrNotInTransaction)
	}
	if err := d.exec(ctx, "COMMIT"); err != nil {
		return d.fail(err)
	}
	d.inTransaction = false
	return nil
}

// TransactionRollback rolls back the current transaction.
func (d *DB) TransactionRollback(ctx context.Context) error {
	d.errs.Reset()
	if d.engine == nil {
		return d.fail(core.ErrNoConnection)
	}
	if err := d.exec(ctx, "ROLLBACK"); err != nil {
		return d.fail(fmt.Errorf("%w: %w", core.ErrRollback, err))
	}
	d.inTransaction = false
	return nil
}

// InTransaction reports whether a transaction is open.
func (d *DB) InTransaction() bool {
	return d.inTransaction
}

// exec runs a control statement without touching the cursor.
func (d *DB) exec(ctx context.Context, sql string) error {
	d.logf("Executing SQL: %s", sql)
	_, err := d.engine.Exec(ctx, sql)
	return err
}
