package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FoodItem struct {
	ID               string           `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CategoryID       string           `gorm:"size:36;not null;index" json:"-"`
	Category         *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;" json:"category,omitempty"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	Price            decimal.Decimal  `gorm:"type:decimal(8,2);not null" json:"price"`
	PreDiscountPrice *decimal.Decimal `gorm:"type:decimal(8,2)" json:"pre_discount_price"`
	Image            string           `gorm:"size:255" json:"image"`
	IsSpecial        bool             `gorm:"default:false;index" json:"is_special"`
	CreatedAt        time.Time        `json:"-"`
	UpdatedAt        time.Time        `json:"-"`
}

func (f *FoodItem) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}
