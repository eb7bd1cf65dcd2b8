package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Payment records one hosted-checkout attempt; an order may have several.
type Payment struct {
	ID            string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID       string          `gorm:"size:36;not null;index" json:"order_id"`
	Order         *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"-"`
	TransactionID string          `gorm:"size:64;not null;uniqueIndex" json:"transaction_id"`
	Gateway       string          `gorm:"size:50;not null" json:"gateway"`
	Amount        decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Status        string          `gorm:"size:20;not null;default:'initiated'" json:"status"`
	RedirectURL   string          `gorm:"type:text" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
