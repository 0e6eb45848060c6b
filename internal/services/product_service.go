package services

import (
	"context"
	"errors"
	"fmt"

	"pantry_tracker/internal/database"
	"pantry_tracker/internal/models"
	"pantry_tracker/internal/repositories"
	"pantry_tracker/internal/validation"
	"pantry_tracker/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// ProductService manages products and their stock counts.
type ProductService interface {
	CreateProduct(ctx context.Context, payload map[string]any) (*models.Product, error)
	UpdateProduct(ctx context.Context, name string, payload map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, name string) error
	GetProduct(ctx context.Context, name string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)

	SetCount(ctx context.Context, name string, count int) (*models.Product, error)
	AdjustCount(ctx context.Context, name string, delta int) (*models.Product, error)

	GetLowStock(ctx context.Context) ([]models.Product, error)
	GetExpired(ctx context.Context) ([]models.Product, error)
	GetExpiringSoon(ctx context.Context, threshold int) ([]models.Product, error)
}

type productService struct {
	store        *database.Store
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	locationRepo repositories.LocationRepository
	countRepo    repositories.CountRepository
	today        func() models.Date
}

// NewProductService creates a new instance of ProductService.
func NewProductService(store *database.Store, productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository, locationRepo repositories.LocationRepository,
	countRepo repositories.CountRepository) ProductService {
	return &productService{
		store:        store,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		countRepo:    countRepo,
		today:        models.Today,
	}
}

func (s *productService) CreateProduct(ctx context.Context, payload map[string]any) (*models.Product, error) {
	in, err := validation.ValidateProductCreate(payload)
	if err != nil {
		return nil, invalid(err)
	}

	var product *models.Product
	err = inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		category, err := s.resolveCategory(ctx, tx, in.Category)
		if err != nil {
			return err
		}
		locationID, err := s.resolveLocation(ctx, tx, in.Location)
		if err != nil {
			return err
		}

		newProduct := &models.Product{
			Name:               in.Name,
			URL:                in.URL,
			CategoryID:         category.ID,
			Barcode:            in.Barcode.Ptr(),
			ImageFrontSmallURL: in.ImageFrontSmallURL.Ptr(),
			MinStock:           in.MinStock,
			LocationID:         locationID,
			ExpiryDate:         in.ExpiryDate.Ptr(),
			Notes:              in.Notes.Ptr(),
		}
		id, err := s.productRepo.CreateProduct(ctx, tx, newProduct)
		if err != nil {
			return s.mapWriteError(err)
		}
		product, err = s.productRepo.GetProductByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("product created", map[string]interface{}{"product": product.Name, "category": product.CategoryName})
	return product, nil
}

// UpdateProduct applies a partial update: absent fields are kept, null
// fields are cleared.
func (s *productService) UpdateProduct(ctx context.Context, name string, payload map[string]any) (*models.Product, error) {
	in, err := validation.ValidateProductUpdate(payload)
	if err != nil {
		return nil, invalid(err)
	}

	var product *models.Product
	err = inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		current, err := s.productByName(ctx, tx, name)
		if err != nil {
			return err
		}

		if v, ok := in.NewName.Get(); ok {
			current.Name = v
		}
		if v, ok := in.URL.Get(); ok {
			current.URL = v
		}
		if v, ok := in.MinStock.Get(); ok {
			current.MinStock = v
		}
		if v, ok := in.Category.Get(); ok {
			category, err := s.resolveCategory(ctx, tx, v)
			if err != nil {
				return err
			}
			current.CategoryID = category.ID
		}
		if in.Location.Supplied() {
			if current.LocationID, err = s.resolveLocation(ctx, tx, in.Location); err != nil {
				return err
			}
		}
		in.Barcode.Apply(&current.Barcode)
		in.ImageFrontSmallURL.Apply(&current.ImageFrontSmallURL)
		in.ExpiryDate.Apply(&current.ExpiryDate)
		in.Notes.Apply(&current.Notes)

		if err := s.productRepo.UpdateProduct(ctx, tx, current); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProductNotFound
			}
			return s.mapWriteError(err)
		}
		product, err = s.productRepo.GetProductByID(ctx, tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product together with its count.
func (s *productService) DeleteProduct(ctx context.Context, name string) error {
	err := inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		product, err := s.productByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if err := s.countRepo.DeleteCountByProduct(ctx, tx, product.ID); err != nil {
			return err
		}
		return s.productRepo.DeleteProduct(ctx, tx, product.ID)
	})
	if err != nil {
		return err
	}
	utils.LogInfo("product deleted", map[string]interface{}{"product": name})
	return nil
}

func (s *productService) GetProduct(ctx context.Context, name string) (*models.Product, error) {
	return s.productByName(ctx, s.store, name)
}

func (s *productService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetProducts(ctx, s.store, repositories.ProductFilter{})
}

func (s *productService) SetCount(ctx context.Context, name string, count int) (*models.Product, error) {
	if count < 0 {
		return nil, invalid(validation.Errors{"count": {"Must be greater than or equal to 0."}})
	}
	return s.updateCount(ctx, name, func(int) int { return count })
}

// AdjustCount adds delta to the product's count. A product without a count
// starts from zero. The result may not drop below zero.
func (s *productService) AdjustCount(ctx context.Context, name string, delta int) (*models.Product, error) {
	return s.updateCount(ctx, name, func(current int) int { return current + delta })
}

func (s *productService) updateCount(ctx context.Context, name string, next func(current int) int) (*models.Product, error) {
	var product *models.Product
	err := inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		current, err := s.productByName(ctx, tx, name)
		if err != nil {
			return err
		}
		value := 0
		if current.Count != nil {
			value = current.Count.Count
		}
		value = next(value)
		if value < 0 {
			return invalid(validation.Errors{"count": {fmt.Sprintf("Count of '%s' cannot go below 0.", name)}})
		}
		if current.Count, err = s.countRepo.SetCount(ctx, tx, current.ID, value); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogDebug("product count updated", map[string]interface{}{"product": name, "count": product.Count.Count})
	return product, nil
}

// GetLowStock lists products whose count is at or below their minimum.
func (s *productService) GetLowStock(ctx context.Context) ([]models.Product, error) {
	return s.filterProducts(ctx, func(p *models.Product) bool { return p.IsLowStock() })
}

func (s *productService) GetExpired(ctx context.Context) ([]models.Product, error) {
	today := s.today()
	return s.filterProducts(ctx, func(p *models.Product) bool { return p.IsExpired(today) })
}

// GetExpiringSoon lists products expiring within threshold days, today
// included. A negative threshold uses the default window.
func (s *productService) GetExpiringSoon(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold < 0 {
		threshold = models.DefaultExpiringThreshold
	}
	today := s.today()
	return s.filterProducts(ctx, func(p *models.Product) bool { return p.IsExpiringSoon(today, threshold) })
}

func (s *productService) filterProducts(ctx context.Context, keep func(p *models.Product) bool) ([]models.Product, error) {
	products, err := s.productRepo.GetProducts(ctx, s.store, repositories.ProductFilter{})
	if err != nil {
		return nil, err
	}
	result := []models.Product{}
	for i := range products {
		if keep(&products[i]) {
			result = append(result, products[i])
		}
	}
	return result, nil
}

func (s *productService) productByName(ctx context.Context, executor repositories.SQLExecutor, name string) (*models.Product, error) {
	product, err := s.productRepo.GetProductByName(ctx, executor, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) resolveCategory(ctx context.Context, executor repositories.SQLExecutor, name string) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByName(ctx, executor, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrCategoryNotFound, name)
		}
		return nil, err
	}
	return category, nil
}

// resolveLocation maps a location name to its id. Absent or null names
// resolve to no location.
func (s *productService) resolveLocation(ctx context.Context, executor repositories.SQLExecutor, name models.Optional[string]) (*int64, error) {
	v, ok := name.Get()
	if !ok {
		return nil, nil
	}
	location, err := s.locationRepo.GetLocationByName(ctx, executor, v)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrLocationNotFound, v)
		}
		return nil, err
	}
	return &location.ID, nil
}

func (s *productService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %v", ErrProductConflict, err)
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrCategoryNotFound, err)
	}
	return err
}
