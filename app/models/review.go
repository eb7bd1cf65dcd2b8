package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID               string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CustomerID       string    `gorm:"size:36;not null;uniqueIndex:idx_review_customer_food" json:"-"`
	Customer         *User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE;" json:"-"`
	FoodItemID       string    `gorm:"size:36;not null;uniqueIndex:idx_review_customer_food;index" json:"-"`
	FoodItem         *FoodItem `gorm:"foreignKey:FoodItemID;constraint:OnDelete:CASCADE;" json:"-"`
	CustomerUsername string    `gorm:"-" json:"customer"`
	FoodItemName     string    `gorm:"-" json:"food_item"`
	Rating           int       `gorm:"not null;default:1" json:"rating"`
	Comment          string    `gorm:"type:text" json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (r *Review) AfterFind(tx *gorm.DB) (err error) {
	if r.Customer != nil {
		r.CustomerUsername = r.Customer.Username
	}
	if r.FoodItem != nil {
		r.FoodItemName = r.FoodItem.Name
	}
	return
}
