package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pantry_tracker/internal/database"
	"pantry_tracker/internal/models"

	"github.com/jmoiron/sqlx"
)

// CountRepository defines the interface for stock count database operations.
type CountRepository interface {
	GetCount(ctx context.Context, executor SQLExecutor, productID int64) (*models.Count, error)
	// SetCount creates or replaces the count of a product.
	SetCount(ctx context.Context, executor SQLExecutor, productID int64, count int) (*models.Count, error)
	DeleteCountByProduct(ctx context.Context, executor SQLExecutor, productID int64) error
	DeleteCountsByCategory(ctx context.Context, executor SQLExecutor, categoryID int64) (int64, error)
}

type countRepository struct {
	dialect database.Dialect
}

// NewCountRepository creates a new instance of CountRepository.
func NewCountRepository(dialect database.Dialect) CountRepository {
	return &countRepository{dialect: dialect}
}

func (r *countRepository) GetCount(ctx context.Context, executor SQLExecutor, productID int64) (*models.Count, error) {
	count := &models.Count{}
	query := executor.Rebind(`SELECT id, product_id, count FROM counts WHERE product_id = ?`)
	if err := sqlx.GetContext(ctx, executor, count, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting count of product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return count, nil
}

func (r *countRepository) SetCount(ctx context.Context, executor SQLExecutor, productID int64, count int) (*models.Count, error) {
	result := &models.Count{}
	query := executor.Rebind(`INSERT INTO counts (product_id, count) VALUES (?, ?)
	          ON CONFLICT (product_id) DO UPDATE SET count = excluded.count
	          RETURNING id, product_id, count`)
	if err := sqlx.GetContext(ctx, executor, result, query, productID, count); err != nil {
		if r.dialect.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: product ID %d does not exist", ErrForeignKey, productID)
		}
		return nil, fmt.Errorf("%w: setting count of product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return result, nil
}

func (r *countRepository) DeleteCountByProduct(ctx context.Context, executor SQLExecutor, productID int64) error {
	if _, err := executor.ExecContext(ctx, executor.Rebind(`DELETE FROM counts WHERE product_id = ?`), productID); err != nil {
		return fmt.Errorf("%w: deleting count of product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return nil
}

func (r *countRepository) DeleteCountsByCategory(ctx context.Context, executor SQLExecutor, categoryID int64) (int64, error) {
	result, err := executor.ExecContext(ctx, executor.Rebind(
		`DELETE FROM counts WHERE product_id IN (SELECT id FROM products WHERE category_id = ?)`), categoryID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting counts of category ID %d: %v", ErrDatabaseError, categoryID, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
