package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-foodie/app/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByCustomerAndFood(ctx context.Context, customerID, foodItemID string) (*models.Review, error)
	ListByFoodItem(ctx context.Context, foodItemID string) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("Customer", "FoodItem").Create(review).Error
}

func (r *reviewRepository) FindByCustomerAndFood(ctx context.Context, customerID, foodItemID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND food_item_id = ?", customerID, foodItemID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByFoodItem(ctx context.Context, foodItemID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("FoodItem").
		Where("food_item_id = ?", foodItemID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
