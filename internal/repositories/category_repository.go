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

// CategoryRepository defines the interface for category database operations.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) (int64, error)
	GetCategoryByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, executor SQLExecutor, name string) (*models.Category, error)
	GetCategories(ctx context.Context, executor SQLExecutor) ([]models.Category, error)
	UpdateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) error
	// DeleteCategory removes the category row only; callers delete its products first.
	DeleteCategory(ctx context.Context, executor SQLExecutor, id int64) error
}

type categoryRepository struct {
	dialect database.Dialect
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(dialect database.Dialect) CategoryRepository {
	return &categoryRepository{dialect: dialect}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) (int64, error) {
	id, err := insertReturningID(ctx, executor, `INSERT INTO categories (name) VALUES (?) RETURNING id`, category.Name)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: category name '%s' already exists", ErrDuplicateKey, category.Name)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	category.ID = id
	return id, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Category, error) {
	return r.getCategory(ctx, executor, "id", id)
}

func (r *categoryRepository) GetCategoryByName(ctx context.Context, executor SQLExecutor, name string) (*models.Category, error) {
	return r.getCategory(ctx, executor, "name", name)
}

func (r *categoryRepository) getCategory(ctx context.Context, executor SQLExecutor, column string, value interface{}) (*models.Category, error) {
	category := &models.Category{}
	query := executor.Rebind(`SELECT id, name FROM categories WHERE ` + column + ` = ?`)
	if err := sqlx.GetContext(ctx, executor, category, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by %s %v: %v", ErrDatabaseError, column, value, err)
	}
	return category, nil
}

func (r *categoryRepository) GetCategories(ctx context.Context, executor SQLExecutor) ([]models.Category, error) {
	categories := []models.Category{}
	if err := sqlx.SelectContext(ctx, executor, &categories, `SELECT id, name FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%w: getting categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) error {
	_, err := execAffecting(ctx, executor, `UPDATE categories SET name = ? WHERE id = ?`, category.Name, category.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if r.dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: category name '%s' already exists", ErrDuplicateKey, category.Name)
		}
		return fmt.Errorf("%w: updating category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	return nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, executor SQLExecutor, id int64) error {
	_, err := execAffecting(ctx, executor, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if r.dialect.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: category ID %d is still referenced by products", ErrForeignKey, id)
		}
		return fmt.Errorf("%w: deleting category ID %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}
