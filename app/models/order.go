package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID                    string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CustomerID            string          `gorm:"size:36;not null;index" json:"-"`
	Customer              *User           `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE;" json:"-"`
	CustomerUsername      string          `gorm:"-" json:"customer"`
	TotalPrice            decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"total_price"`
	Status                OrderStatus     `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	EstimatedDeliveryTime *time.Time      `json:"estimated_delivery_time"`
	Items                 []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time       `json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return
}

// AfterFind runs after preloading, so the owner's username is available
// whenever Customer was requested.
func (o *Order) AfterFind(tx *gorm.DB) (err error) {
	if o.Customer != nil {
		o.CustomerUsername = o.Customer.Username
	}
	return
}
