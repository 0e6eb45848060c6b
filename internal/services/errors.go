package services

import (
	"context"
	"errors"
	"fmt"

	"pantry_tracker/internal/database"

	"github.com/jmoiron/sqlx"
)

// --- Service errors ---
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrLocationNotFound   = errors.New("location not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrLocationNameExists = errors.New("location name already exists")
	ErrProductConflict    = errors.New("product name or barcode already exists")
	ErrValidation         = errors.New("validation error")
)

// invalid wraps a validation failure so callers can match ErrValidation and
// still reach the per-field validation.Errors with errors.As.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// inTx runs fn inside one transaction. The transaction is rolled back unless
// fn returns nil and the commit succeeds.
func inTx(ctx context.Context, store *database.Store, fn func(tx *sqlx.Tx) error) error {
	tx, err := store.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
