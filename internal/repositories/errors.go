package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrForeignKey is returned when a row references a missing parent row.
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// SQLExecutor is satisfied by *sqlx.DB and *sqlx.Tx, so repository methods
// run the same inside or outside a transaction. Queries are written with ?
// placeholders and rebound for the executor's driver.
type SQLExecutor interface {
	sqlx.ExtContext
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// insertReturningID runs an INSERT ... RETURNING id statement.
func insertReturningID(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (int64, error) {
	var id int64
	err := executor.QueryRowxContext(ctx, executor.Rebind(query), args...).Scan(&id)
	return id, err
}

// execAffecting runs a statement and returns ErrNotFound when no row changed.
func execAffecting(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (sql.Result, error) {
	result, err := executor.ExecContext(ctx, executor.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return result, ErrNotFound
	}
	return result, nil
}
