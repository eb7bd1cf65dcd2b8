package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name      string     `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug      string     `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	FoodItems []FoodItem `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
