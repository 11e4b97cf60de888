package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner runs a function inside one transaction. Repositories receive the
// transaction through their SQLExecutor parameter.
type TxRunner interface {
	InTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) InTx(ctx context.Context, fn func(exec SQLExecutor) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if isConcurrencyError(err) {
			return ErrSerializationFailure
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
