package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-foodie/app/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, transactionID, status string) error
}

type PaymentRepositoryImpl struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{DB: db}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *models.Payment) error {
	return r.DB.WithContext(ctx).Omit("Order").Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.DB.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByOrderID(ctx context.Context, orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, transactionID, status string) error {
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("transaction_id = ?", transactionID).
		Update("status", status).Error
}
