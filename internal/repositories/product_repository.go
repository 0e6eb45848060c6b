package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pantry_tracker/internal/database"
	"pantry_tracker/internal/models"
)

// ProductFilter narrows GetProducts. Nil fields are ignored.
type ProductFilter struct {
	CategoryID *int64
	LocationID *int64
}

// ProductRepository defines the interface for product database operations.
// Products are always read joined with their category, location and count.
type ProductRepository interface {
	CreateProduct(ctx context.Context, executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Product, error)
	GetProductByName(ctx context.Context, executor SQLExecutor, name string) (*models.Product, error)
	GetProducts(ctx context.Context, executor SQLExecutor, filter ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, executor SQLExecutor, product *models.Product) error
	DeleteProduct(ctx context.Context, executor SQLExecutor, id int64) error
	DeleteProductsByCategory(ctx context.Context, executor SQLExecutor, categoryID int64) (int64, error)
}

type productRepository struct {
	dialect database.Dialect
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(dialect database.Dialect) ProductRepository {
	return &productRepository{dialect: dialect}
}

const productSelect = `SELECT
	    p.id, p.name, p.url, p.category_id, p.barcode, p.image_front_small_url,
	    p.min_stock, p.location_id, p.expiry_date, p.notes,
	    cat.name AS category_name, loc.name AS location_name,
	    c.id AS count_id, c.count
	  FROM products p
	  JOIN categories cat ON cat.id = p.category_id
	  LEFT JOIN locations loc ON loc.id = p.location_id
	  LEFT JOIN counts c ON c.product_id = p.id`

func scanProduct(row scanner) (*models.Product, error) {
	p := &models.Product{}
	var countID, count sql.NullInt64
	err := row.Scan(
		&p.ID, &p.Name, &p.URL, &p.CategoryID, &p.Barcode, &p.ImageFrontSmallURL,
		&p.MinStock, &p.LocationID, &p.ExpiryDate, &p.Notes,
		&p.CategoryName, &p.LocationName,
		&countID, &count,
	)
	if err != nil {
		return nil, err
	}
	if countID.Valid {
		p.Count = &models.Count{ID: countID.Int64, ProductID: p.ID, Count: int(count.Int64)}
	}
	return p, nil
}

func (r *productRepository) classify(err error, action string, product *models.Product) error {
	switch {
	case r.dialect.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s product '%s': name or barcode already in use", ErrDuplicateKey, action, product.Name)
	case r.dialect.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s product '%s': category or location does not exist", ErrForeignKey, action, product.Name)
	}
	return fmt.Errorf("%w: %s product '%s': %v", ErrDatabaseError, action, product.Name, err)
}

func (r *productRepository) CreateProduct(ctx context.Context, executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products
	          (name, url, category_id, barcode, image_front_small_url, min_stock, location_id, expiry_date, notes)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`
	id, err := insertReturningID(ctx, executor, query,
		product.Name, product.URL, product.CategoryID, product.Barcode, product.ImageFrontSmallURL,
		product.MinStock, product.LocationID, product.ExpiryDate, product.Notes,
	)
	if err != nil {
		return 0, r.classify(err, "creating", product)
	}
	product.ID = id
	return id, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Product, error) {
	return r.getProduct(ctx, executor, "p.id", id)
}

func (r *productRepository) GetProductByName(ctx context.Context, executor SQLExecutor, name string) (*models.Product, error) {
	return r.getProduct(ctx, executor, "p.name", name)
}

func (r *productRepository) getProduct(ctx context.Context, executor SQLExecutor, column string, value interface{}) (*models.Product, error) {
	row := executor.QueryRowxContext(ctx, executor.Rebind(productSelect+` WHERE `+column+` = ?`), value)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by %s %v: %v", ErrDatabaseError, column, value, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts(ctx context.Context, executor SQLExecutor, filter ProductFilter) ([]models.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(productSelect)

	var conditions []string
	var args []interface{}
	if filter.CategoryID != nil {
		conditions = append(conditions, "p.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.LocationID != nil {
		conditions = append(conditions, "p.location_id = ?")
		args = append(args, *filter.LocationID)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.name")

	rows, err := executor.QueryxContext(ctx, executor.Rebind(queryBuilder.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET
	            name = ?, url = ?, category_id = ?, barcode = ?, image_front_small_url = ?,
	            min_stock = ?, location_id = ?, expiry_date = ?, notes = ?
	          WHERE id = ?`
	_, err := execAffecting(ctx, executor, query,
		product.Name, product.URL, product.CategoryID, product.Barcode, product.ImageFrontSmallURL,
		product.MinStock, product.LocationID, product.ExpiryDate, product.Notes,
		product.ID,
	)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return r.classify(err, "updating", product)
	}
	return nil
}

// DeleteProduct removes the product row only; callers delete its count first.
func (r *productRepository) DeleteProduct(ctx context.Context, executor SQLExecutor, id int64) error {
	_, err := execAffecting(ctx, executor, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if r.dialect.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: product ID %d is still referenced by its count", ErrForeignKey, id)
		}
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}

func (r *productRepository) DeleteProductsByCategory(ctx context.Context, executor SQLExecutor, categoryID int64) (int64, error) {
	result, err := executor.ExecContext(ctx, executor.Rebind(`DELETE FROM products WHERE category_id = ?`), categoryID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting products of category ID %d: %v", ErrDatabaseError, categoryID, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
