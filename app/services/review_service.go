package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"gorm.io/gorm"
)

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewService struct {
	reviewRepo   repositories.ReviewRepository
	foodItemRepo repositories.FoodItemRepositoryImpl
}

func NewReviewService(reviewRepo repositories.ReviewRepository, foodItemRepo repositories.FoodItemRepositoryImpl) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, foodItemRepo: foodItemRepo}
}

func (s *ReviewService) ListReviews(ctx context.Context, foodItemID string) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListByFoodItem(ctx, foodItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview allows one review per customer and food item.
func (s *ReviewService) CreateReview(ctx context.Context, customer *models.User, foodItemID string, input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperr.ValidationFields("invalid review", map[string]string{"rating": "rating must be between 1 and 5"})
	}

	food, err := s.foodItemRepo.GetByID(ctx, foodItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get food item %s: %w", foodItemID, err)
	}
	if food == nil {
		return nil, apperr.NotFound("food item %s not found", foodItemID)
	}

	existing, err := s.reviewRepo.FindByCustomerAndFood(ctx, customer.ID, food.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("you have already reviewed this item")
	}

	review := &models.Review{
		CustomerID: customer.ID,
		FoodItemID: food.ID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("you have already reviewed this item")
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	review.CustomerUsername = customer.Username
	review.FoodItemName = food.Name
	return review, nil
}
