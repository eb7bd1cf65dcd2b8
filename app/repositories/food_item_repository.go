package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Rakhulsr/go-foodie/app/models"
	"gorm.io/gorm"
)

type FoodItemFilter struct {
	CategorySlug string
	Search       string
	SpecialsOnly bool
}

type FoodItemRepositoryImpl interface {
	Create(ctx context.Context, item *models.FoodItem) error
	Update(ctx context.Context, item *models.FoodItem) error
	GetByID(ctx context.Context, id string) (*models.FoodItem, error)
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.FoodItem, error)
	List(ctx context.Context, filter FoodItemFilter) ([]models.FoodItem, error)
	IDsByCategory(ctx context.Context, tx *gorm.DB, categoryID string) ([]string, error)
	Delete(ctx context.Context, tx *gorm.DB, ids ...string) error
	DeleteDependents(ctx context.Context, tx *gorm.DB, ids ...string) error
}

type foodItemRepository struct {
	db *gorm.DB
}

func NewFoodItemRepository(db *gorm.DB) FoodItemRepositoryImpl {
	return &foodItemRepository{db}
}

func (r *foodItemRepository) Create(ctx context.Context, item *models.FoodItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *foodItemRepository) Update(ctx context.Context, item *models.FoodItem) error {
	return r.db.WithContext(ctx).Omit("Category").Save(item).Error
}

func (r *foodItemRepository) GetByID(ctx context.Context, id string) (*models.FoodItem, error) {
	return r.FindByID(ctx, r.db, id)
}

// FindByID reads through tx so callers inside a transaction see their own writes.
func (r *foodItemRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.FoodItem, error) {
	var item models.FoodItem
	err := tx.WithContext(ctx).
		Preload("Category").
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *foodItemRepository) List(ctx context.Context, filter FoodItemFilter) ([]models.FoodItem, error) {
	var items []models.FoodItem

	q := r.db.WithContext(ctx).Model(&models.FoodItem{}).Preload("Category")

	if filter.CategorySlug != "" {
		q = q.Joins("JOIN categories c ON c.id = food_items.category_id").
			Where("c.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(food_items.name) LIKE ? OR LOWER(food_items.description) LIKE ?", keyword, keyword)
	}
	if filter.SpecialsOnly {
		q = q.Where("food_items.is_special = ?", true)
	}

	if err := q.Order("food_items.name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *foodItemRepository) IDsByCategory(ctx context.Context, tx *gorm.DB, categoryID string) ([]string, error) {
	var ids []string
	err := tx.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *foodItemRepository) Delete(ctx context.Context, tx *gorm.DB, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("id IN ?", ids).Delete(&models.FoodItem{}).Error
}

// DeleteDependents removes the cart items, reviews and order items that reference
// the given food items. Orders themselves are kept.
func (r *foodItemRepository) DeleteDependents(ctx context.Context, tx *gorm.DB, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	db := tx.WithContext(ctx)
	if err := db.Where("food_item_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("food_item_id IN ?", ids).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	return db.Where("food_item_id IN ?", ids).Delete(&models.OrderItem{}).Error
}
