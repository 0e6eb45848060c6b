package database

import (
	"context"
	"errors"
	"fmt"

	"pantry_tracker/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrStoreConfig is returned when the store configuration cannot be used.
var ErrStoreConfig = errors.New("invalid store configuration")

// Store is an open pantry store together with the dialect of its engine.
type Store struct {
	*sqlx.DB
	Dialect Dialect
}

// Open connects to the store described by cfg and verifies the connection.
// For SQLite the file is created when it does not exist yet.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s store: %w", cfg.Driver, err)
	}
	return &Store{DB: db, Dialect: dialect}, nil
}

func dataSourceName(cfg config.StoreConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("%w: empty store path", ErrStoreConfig)
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return "", fmt.Errorf("%w: empty postgres DSN", ErrStoreConfig)
		}
		return cfg.DSN, nil
	default:
		return "", fmt.Errorf("%w: unsupported driver %q", ErrStoreConfig, cfg.Driver)
	}
}
