package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem has no price column: the order total is a snapshot taken at creation.
type OrderItem struct {
	ID         string    `gorm:"primaryKey;size:36;not null;uniqueIndex" json:"id"`
	OrderID    string    `gorm:"size:36;not null;index" json:"-"`
	FoodItemID string    `gorm:"size:36;not null;index" json:"-"`
	FoodItem   *FoodItem `gorm:"foreignKey:FoodItemID;constraint:OnDelete:CASCADE;" json:"food_item,omitempty"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt  time.Time `json:"-"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}
