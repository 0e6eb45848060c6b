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

// LocationRepository defines the interface for storage location database operations.
type LocationRepository interface {
	CreateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) (int64, error)
	GetLocationByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Location, error)
	GetLocationByName(ctx context.Context, executor SQLExecutor, name string) (*models.Location, error)
	GetLocations(ctx context.Context, executor SQLExecutor) ([]models.Location, error)
	UpdateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) error
	// DetachProducts clears location_id on every product stored at the location.
	DetachProducts(ctx context.Context, executor SQLExecutor, id int64) (int64, error)
	DeleteLocation(ctx context.Context, executor SQLExecutor, id int64) error
}

type locationRepository struct {
	dialect database.Dialect
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(dialect database.Dialect) LocationRepository {
	return &locationRepository{dialect: dialect}
}

func (r *locationRepository) CreateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) (int64, error) {
	id, err := insertReturningID(ctx, executor,
		`INSERT INTO locations (name, description) VALUES (?, ?) RETURNING id`,
		location.Name, location.Description)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: location name '%s' already exists", ErrDuplicateKey, location.Name)
		}
		return 0, fmt.Errorf("%w: creating location: %v", ErrDatabaseError, err)
	}
	location.ID = id
	return id, nil
}

func (r *locationRepository) GetLocationByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Location, error) {
	return r.getLocation(ctx, executor, "id", id)
}

func (r *locationRepository) GetLocationByName(ctx context.Context, executor SQLExecutor, name string) (*models.Location, error) {
	return r.getLocation(ctx, executor, "name", name)
}

func (r *locationRepository) getLocation(ctx context.Context, executor SQLExecutor, column string, value interface{}) (*models.Location, error) {
	location := &models.Location{}
	query := executor.Rebind(`SELECT id, name, description FROM locations WHERE ` + column + ` = ?`)
	if err := sqlx.GetContext(ctx, executor, location, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting location by %s %v: %v", ErrDatabaseError, column, value, err)
	}
	return location, nil
}

func (r *locationRepository) GetLocations(ctx context.Context, executor SQLExecutor) ([]models.Location, error) {
	locations := []models.Location{}
	err := sqlx.SelectContext(ctx, executor, &locations, `SELECT id, name, description FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting locations: %v", ErrDatabaseError, err)
	}
	return locations, nil
}

func (r *locationRepository) UpdateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) error {
	_, err := execAffecting(ctx, executor,
		`UPDATE locations SET name = ?, description = ? WHERE id = ?`,
		location.Name, location.Description, location.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if r.dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: location name '%s' already exists", ErrDuplicateKey, location.Name)
		}
		return fmt.Errorf("%w: updating location ID %d: %v", ErrDatabaseError, location.ID, err)
	}
	return nil
}

func (r *locationRepository) DetachProducts(ctx context.Context, executor SQLExecutor, id int64) (int64, error) {
	result, err := executor.ExecContext(ctx, executor.Rebind(`UPDATE products SET location_id = NULL WHERE location_id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("%w: detaching products from location ID %d: %v", ErrDatabaseError, id, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (r *locationRepository) DeleteLocation(ctx context.Context, executor SQLExecutor, id int64) error {
	_, err := execAffecting(ctx, executor, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if r.dialect.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: location ID %d is still referenced by products", ErrForeignKey, id)
		}
		return fmt.Errorf("%w: deleting location ID %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}
