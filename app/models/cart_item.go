package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is unique per (user, food item); repeated adds bump Quantity.
type CartItem struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_cart_user_food" json:"-"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	FoodItemID string    `gorm:"size:36;not null;uniqueIndex:idx_cart_user_food" json:"-"`
	FoodItem   *FoodItem `gorm:"foreignKey:FoodItemID;constraint:OnDelete:CASCADE;" json:"food_item,omitempty"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}
