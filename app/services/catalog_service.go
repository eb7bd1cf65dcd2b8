package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var maxItemPrice = decimal.NewFromInt(1000000)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=120"`
}

type FoodItemInput struct {
	CategoryID       string           `json:"category_id" validate:"required"`
	Name             string           `json:"name" validate:"required,max=255"`
	Description      string           `json:"description"`
	Price            decimal.Decimal  `json:"price"`
	PreDiscountPrice *decimal.Decimal `json:"pre_discount_price"`
	Image            string           `json:"image" validate:"omitempty,max=255"`
	IsSpecial        bool             `json:"is_special"`
}

type CatalogService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	foodItemRepo repositories.FoodItemRepositoryImpl
}

func NewCatalogService(db *gorm.DB, categoryRepo repositories.CategoryRepositoryImpl, foodItemRepo repositories.FoodItemRepositoryImpl) *CatalogService {
	return &CatalogService{
		db:           db,
		categoryRepo: categoryRepo,
		foodItemRepo: foodItemRepo,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) ListFoodItems(ctx context.Context, categorySlug, search string) ([]models.FoodItem, error) {
	items, err := s.foodItemRepo.List(ctx, repositories.FoodItemFilter{
		CategorySlug: categorySlug,
		Search:       strings.TrimSpace(search),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	return items, nil
}

// FoodItemsByCategory differs from ListFoodItems by failing on an unknown slug.
func (s *CatalogService) FoodItemsByCategory(ctx context.Context, categorySlug string) ([]models.FoodItem, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", categorySlug, err)
	}
	if category == nil {
		return nil, apperr.NotFound("category %s not found", categorySlug)
	}
	return s.ListFoodItems(ctx, category.Slug, "")
}

func (s *CatalogService) Specials(ctx context.Context) ([]models.FoodItem, error) {
	items, err := s.foodItemRepo.List(ctx, repositories.FoodItemFilter{SpecialsOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list specials: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetFoodItem(ctx context.Context, id string) (*models.FoodItem, error) {
	item, err := s.foodItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get food item %s: %w", id, err)
	}
	if item == nil {
		return nil, apperr.NotFound("food item %s not found", id)
	}
	return item, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(input.Name)}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, categoryWriteError(err, category)
	}
	log.Printf("CatalogService.CreateCategory: %s (%s)", category.Name, category.Slug)
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	if category == nil {
		return nil, apperr.NotFound("category %s not found", id)
	}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, categoryWriteError(err, category)
	}
	return category, nil
}

// DeleteCategory removes the category with all of its food items and
// everything that references them.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get category %s: %w", id, err)
	}
	if category == nil {
		return apperr.NotFound("category %s not found", id)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.foodItemRepo.IDsByCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.foodItemRepo.DeleteDependents(ctx, tx, ids...); err != nil {
			return err
		}
		if err := s.foodItemRepo.Delete(ctx, tx, ids...); err != nil {
			return err
		}
		return s.categoryRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		log.Printf("CatalogService.DeleteCategory: %s: %v", id, err)
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CatalogService) CreateFoodItem(ctx context.Context, input FoodItemInput) (*models.FoodItem, error) {
	item := &models.FoodItem{}
	if err := s.applyFoodItemInput(ctx, item, input); err != nil {
		return nil, err
	}

	if err := s.foodItemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create food item: %w", err)
	}
	return s.GetFoodItem(ctx, item.ID)
}

func (s *CatalogService) UpdateFoodItem(ctx context.Context, id string, input FoodItemInput) (*models.FoodItem, error) {
	item, err := s.GetFoodItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyFoodItemInput(ctx, item, input); err != nil {
		return nil, err
	}

	if err := s.foodItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update food item: %w", err)
	}
	return s.GetFoodItem(ctx, id)
}

// DeleteFoodItem also removes cart lines, reviews and order lines for the item.
// Orders keep their stored total.
func (s *CatalogService) DeleteFoodItem(ctx context.Context, id string) error {
	if _, err := s.GetFoodItem(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.foodItemRepo.DeleteDependents(ctx, tx, id); err != nil {
			return err
		}
		return s.foodItemRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		log.Printf("CatalogService.DeleteFoodItem: %s: %v", id, err)
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	return nil
}

func (s *CatalogService) applyFoodItemInput(ctx context.Context, item *models.FoodItem, input FoodItemInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperr.ValidationFields("invalid food item", map[string]string{"name": "name is required"})
	}
	if !input.Price.IsPositive() || input.Price.GreaterThanOrEqual(maxItemPrice) {
		return apperr.ValidationFields("invalid food item", map[string]string{"price": "price must be positive and below 1000000"})
	}
	if input.PreDiscountPrice != nil && !input.PreDiscountPrice.IsPositive() {
		return apperr.ValidationFields("invalid food item", map[string]string{"pre_discount_price": "pre_discount_price must be positive"})
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to get category %s: %w", input.CategoryID, err)
	}
	if category == nil {
		return apperr.NotFound("category %s not found", input.CategoryID)
	}

	item.CategoryID = category.ID
	item.Category = nil
	item.Name = name
	item.Description = input.Description
	item.Price = input.Price.Round(2)
	item.PreDiscountPrice = input.PreDiscountPrice
	item.Image = input.Image
	item.IsSpecial = input.IsSpecial
	return nil
}

func applyCategoryInput(category *models.Category, input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperr.ValidationFields("invalid category", map[string]string{"name": "name is required"})
	}
	category.Name = name

	category.Slug = slug.Make(input.Slug)
	if category.Slug == "" {
		category.Slug = slug.Make(name)
	}
	if category.Slug == "" {
		return apperr.ValidationFields("invalid category", map[string]string{"slug": "slug cannot be derived from name"})
	}
	return nil
}

func categoryWriteError(err error, category *models.Category) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("category %q or slug %q already exists", category.Name, category.Slug)
	}
	return fmt.Errorf("failed to save category: %w", err)
}
