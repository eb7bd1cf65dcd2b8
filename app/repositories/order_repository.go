package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status models.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error)
	LockByID(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetAllOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	UpdateTotal(ctx context.Context, tx *gorm.DB, orderID string, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status models.OrderStatus) error
	UpdateFields(ctx context.Context, tx *gorm.DB, orderID string, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, orderID string) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Omit("Items", "Customer").Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.FindByID(ctx, r.db, id)
}

func (r *gormOrderRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
	var order models.Order

	err := tx.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Items.FoodItem.Category").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order with relations: %w", err)
	}
	return &order, nil
}

// LockByID loads the bare order row FOR UPDATE, without relations.
func (r *gormOrderRepository) LockByID(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.FoodItem.Category").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) GetAllOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.FoodItem.Category")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) UpdateTotal(ctx context.Context, tx *gorm.DB, orderID string, total decimal.Decimal) error {
	return r.UpdateFields(ctx, tx, orderID, map[string]interface{}{"total_price": total})
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status models.OrderStatus) error {
	return r.UpdateFields(ctx, tx, orderID, map[string]interface{}{"status": status})
}

func (r *gormOrderRepository) UpdateFields(ctx context.Context, tx *gorm.DB, orderID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(fields).Error
}

func (r *gormOrderRepository) Delete(ctx context.Context, tx *gorm.DB, orderID string) error {
	db := tx.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", orderID).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", orderID).Delete(&models.Order{}).Error
}
