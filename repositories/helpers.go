package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor lets repository methods run either on the pool or inside a
// *sql.Tx supplied by the orchestrating service.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrSerializationFailure marks a transaction aborted by a concurrent
// conflicting write; callers retry the whole operation.
var ErrSerializationFailure = errors.New("transaction aborted by concurrent write")

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// isConcurrencyError matches postgres serialization failures, deadlocks and
// constraint races that mean "someone else got there first".
func isConcurrencyError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return true
	case "23505", "23P01": // unique_violation, exclusion_violation
		return true
	}
	return false
}
