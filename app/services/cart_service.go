package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"gorm.io/gorm"
)

const maxAddAttempts = 3

// LineRequest asks for Quantity units of one food item in an order.
type LineRequest struct {
	FoodItemID string `json:"food_item" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

type CartService struct {
	db           *gorm.DB
	cartItemRepo repositories.CartItemRepositoryImpl
	foodItemRepo repositories.FoodItemRepositoryImpl
}

func NewCartService(db *gorm.DB, cartItemRepo repositories.CartItemRepositoryImpl, foodItemRepo repositories.FoodItemRepositoryImpl) *CartService {
	return &CartService{
		db:           db,
		cartItemRepo: cartItemRepo,
		foodItemRepo: foodItemRepo,
	}
}

func (s *CartService) ListCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := s.cartItemRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// AddToCart merges into the existing (user, food item) row when there is one.
func (s *CartService) AddToCart(ctx context.Context, userID, foodItemID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	var (
		itemID string
		err    error
	)
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		itemID, err = s.addOnce(ctx, userID, foodItemID, qty)
		if !repositories.IsDeadlock(err) {
			break
		}
		log.Printf("CartService.AddToCart: deadlock on attempt %d for user %s food %s, retrying", attempt+1, userID, foodItemID)
	}
	if err != nil {
		log.Printf("CartService.AddToCart: user %s food %s: %v", userID, foodItemID, err)
		return nil, err
	}

	return s.cartItemRepo.GetByID(ctx, itemID)
}

// addOnce merges through a single upsert so concurrent first adds for the same
// pair never race between a read and an insert.
func (s *CartService) addOnce(ctx context.Context, userID, foodItemID string, qty int) (string, error) {
	var itemID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		food, err := s.foodItemRepo.FindByID(ctx, tx, foodItemID)
		if err != nil {
			return fmt.Errorf("failed to get food item %s: %w", foodItemID, err)
		}
		if food == nil {
			return apperr.NotFound("food item %s not found", foodItemID)
		}

		item := &models.CartItem{
			UserID:     userID,
			FoodItemID: foodItemID,
			Quantity:   qty,
		}
		if err := s.cartItemRepo.AddOrIncrement(ctx, tx, item); err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}

		merged, err := s.cartItemRepo.FindByUserAndFood(ctx, tx, userID, foodItemID)
		if err != nil {
			return fmt.Errorf("failed to read cart item: %w", err)
		}
		if merged == nil {
			return fmt.Errorf("cart item for food %s missing after add", foodItemID)
		}
		itemID = merged.ID
		return nil
	})
	return itemID, err
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	item, err := s.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartItemRepo.UpdateQuantity(ctx, s.db, item.ID, qty); err != nil {
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	item.Quantity = qty
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, cartItemID string) error {
	item, err := s.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return err
	}
	if err := s.cartItemRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	return nil
}

func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	return s.cartItemRepo.Count(ctx, userID)
}

// ownedItem hides other users' rows behind NotFound.
func (s *CartService) ownedItem(ctx context.Context, userID, cartItemID string) (*models.CartItem, error) {
	item, err := s.cartItemRepo.GetByID(ctx, cartItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, apperr.NotFound("cart item %s not found", cartItemID)
	}
	return item, nil
}

func LineRequests(items []models.CartItem) []LineRequest {
	lines := make([]LineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineRequest{FoodItemID: item.FoodItemID, Quantity: item.Quantity})
	}
	return lines
}
