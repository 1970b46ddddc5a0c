package repository

import (
	"context"
	"database/sql"
)

// withTx runs fn inside a transaction. The transaction is committed when
// fn returns nil and rolled back on any error or panic, so callers never
// leave a connection holding locks on an early return.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
