package services

import (
	"context"
	"errors"

	"pantry_tracker/internal/database"
	"pantry_tracker/internal/models"
	"pantry_tracker/internal/repositories"
	"pantry_tracker/internal/validation"
	"pantry_tracker/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// LocationService manages storage locations.
type LocationService interface {
	CreateLocation(ctx context.Context, payload map[string]any) (*models.Location, error)
	UpdateLocation(ctx context.Context, name string, payload map[string]any) (*models.Location, error)
	// DeleteLocation detaches the location's products before removing it.
	DeleteLocation(ctx context.Context, name string) error
	GetLocations(ctx context.Context) ([]models.Location, error)
}

type locationService struct {
	store        *database.Store
	locationRepo repositories.LocationRepository
}

// NewLocationService creates a new instance of LocationService.
func NewLocationService(store *database.Store, locationRepo repositories.LocationRepository) LocationService {
	return &locationService{store: store, locationRepo: locationRepo}
}

func (s *locationService) CreateLocation(ctx context.Context, payload map[string]any) (*models.Location, error) {
	in, err := validation.ValidateLocation(payload)
	if err != nil {
		return nil, invalid(err)
	}

	location := &models.Location{Name: in.Name, Description: in.Description.Ptr()}
	if _, err := s.locationRepo.CreateLocation(ctx, s.store, location); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrLocationNameExists
		}
		utils.LogError(err, "failed to create location")
		return nil, err
	}
	utils.LogInfo("location created", map[string]interface{}{"location": location.Name})
	return location, nil
}

// UpdateLocation renames the location and, when supplied, replaces its
// description. A null description clears it.
func (s *locationService) UpdateLocation(ctx context.Context, name string, payload map[string]any) (*models.Location, error) {
	in, err := validation.ValidateLocation(payload)
	if err != nil {
		return nil, invalid(err)
	}

	var location *models.Location
	err = inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		location, err = s.locationByName(ctx, tx, name)
		if err != nil {
			return err
		}
		location.Name = in.Name
		in.Description.Apply(&location.Description)
		if err := s.locationRepo.UpdateLocation(ctx, tx, location); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrLocationNameExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, name string) error {
	var detached int64
	err := inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		location, err := s.locationByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if detached, err = s.locationRepo.DetachProducts(ctx, tx, location.ID); err != nil {
			return err
		}
		return s.locationRepo.DeleteLocation(ctx, tx, location.ID)
	})
	if err != nil {
		return err
	}
	utils.LogInfo("location deleted", map[string]interface{}{"location": name, "products_detached": detached})
	return nil
}

func (s *locationService) GetLocations(ctx context.Context) ([]models.Location, error) {
	return s.locationRepo.GetLocations(ctx, s.store)
}

func (s *locationService) locationByName(ctx context.Context, executor repositories.SQLExecutor, name string) (*models.Location, error) {
	location, err := s.locationRepo.GetLocationByName(ctx, executor, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}
