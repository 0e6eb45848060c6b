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

// CategoryService manages categories. Deleting a category deletes its
// products and their counts.
type CategoryService interface {
	CreateCategory(ctx context.Context, payload map[string]any) (*models.Category, error)
	RenameCategory(ctx context.Context, name string, payload map[string]any) (*models.Category, error)
	DeleteCategory(ctx context.Context, name string) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, name string) (*models.Category, error)
}

type categoryService struct {
	store        *database.Store
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	countRepo    repositories.CountRepository
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(store *database.Store, categoryRepo repositories.CategoryRepository,
	productRepo repositories.ProductRepository, countRepo repositories.CountRepository) CategoryService {
	return &categoryService{
		store:        store,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		countRepo:    countRepo,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, payload map[string]any) (*models.Category, error) {
	in, err := validation.ValidateCategory(payload)
	if err != nil {
		return nil, invalid(err)
	}

	category := &models.Category{Name: in.Name}
	if _, err := s.categoryRepo.CreateCategory(ctx, s.store, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryNameExists
		}
		utils.LogError(err, "failed to create category")
		return nil, err
	}
	utils.LogInfo("category created", map[string]interface{}{"category": category.Name})
	return category, nil
}

func (s *categoryService) RenameCategory(ctx context.Context, name string, payload map[string]any) (*models.Category, error) {
	in, err := validation.ValidateCategoryRename(payload)
	if err != nil {
		return nil, invalid(err)
	}

	var category *models.Category
	err = inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		category, err = s.categoryByName(ctx, tx, name)
		if err != nil {
			return err
		}
		category.Name = in.NewName
		if err := s.categoryRepo.UpdateCategory(ctx, tx, category); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrCategoryNameExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("category renamed", map[string]interface{}{"from": name, "to": category.Name})
	return category, nil
}

// DeleteCategory removes the counts of the category's products, the products
// and then the category itself, in one transaction.
func (s *categoryService) DeleteCategory(ctx context.Context, name string) error {
	var removedProducts int64
	err := inTx(ctx, s.store, func(tx *sqlx.Tx) error {
		category, err := s.categoryByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := s.countRepo.DeleteCountsByCategory(ctx, tx, category.ID); err != nil {
			return err
		}
		if removedProducts, err = s.productRepo.DeleteProductsByCategory(ctx, tx, category.ID); err != nil {
			return err
		}
		return s.categoryRepo.DeleteCategory(ctx, tx, category.ID)
	})
	if err != nil {
		return err
	}
	utils.LogInfo("category deleted", map[string]interface{}{"category": name, "products_removed": removedProducts})
	return nil
}

func (s *categoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetCategories(ctx, s.store)
}

func (s *categoryService) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	return s.categoryByName(ctx, s.store, name)
}

func (s *categoryService) categoryByName(ctx context.Context, executor repositories.SQLExecutor, name string) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByName(ctx, executor, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}
