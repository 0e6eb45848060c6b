package database

import (
	"context"
	"errors"
	"fmt"

	"pantry_tracker/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect hides the engine specific parts of DDL, catalog inspection and
// error classification.
type Dialect interface {
	Name() string
	// AutoIncrementPrimaryKey is the column definition of a surrogate key.
	AutoIncrementPrimaryKey() string
	TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error)
	// Columns lists the live column names of table.
	Columns(ctx context.Context, q sqlx.QueryerContext, table string) ([]string, error)
	IsUniqueViolation(err error) bool
	IsForeignKeyViolation(err error) bool
}

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return sqliteDialect{}, nil
	case config.DriverPostgres:
		return postgresDialect{}, nil
	}
	return nil, fmt.Errorf("%w: unsupported driver %q", ErrStoreConfig, driver)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return config.DriverSQLite }

func (sqliteDialect) AutoIncrementPrimaryKey() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (sqliteDialect) TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

func (sqliteDialect) Columns(ctx context.Context, q sqlx.QueryerContext, table string) ([]string, error) {
	var cols []string
	if err := sqlx.SelectContext(ctx, q, &cols, "SELECT name FROM pragma_table_info(?)", table); err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	return cols, nil
}

func (sqliteDialect) IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func (sqliteDialect) IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return config.DriverPostgres }

func (postgresDialect) AutoIncrementPrimaryKey() string { return "SERIAL PRIMARY KEY" }

func (postgresDialect) TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_name = $1`, table)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

func (postgresDialect) Columns(ctx context.Context, q sqlx.QueryerContext, table string) ([]string, error) {
	var cols []string
	err := sqlx.SelectContext(ctx, q, &cols,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1
		 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	return cols, nil
}

func (postgresDialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

func (postgresDialect) IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation"
}
