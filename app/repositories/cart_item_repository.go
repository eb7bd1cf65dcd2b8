package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-foodie/app/models"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemRepositoryImpl interface {
	GetByUserID(ctx context.Context, userID string) ([]models.CartItem, error)
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	LockByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]models.CartItem, error)
	FindByUserAndFood(ctx context.Context, tx *gorm.DB, userID, foodItemID string) (*models.CartItem, error)
	AddOrIncrement(ctx context.Context, tx *gorm.DB, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, tx *gorm.DB, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) (int64, error)
	Count(ctx context.Context, userID string) (int, error)
}

type CartItemRepository struct {
	DB *gorm.DB
}

func NewCartItemRepository(db *gorm.DB) CartItemRepositoryImpl {
	return &CartItemRepository{db}
}

func (r *CartItemRepository) GetByUserID(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Preload("FoodItem.Category").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepository) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Preload("FoodItem.Category").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// LockByUserID selects the user's cart rows FOR UPDATE so a concurrent checkout
// waits until this transaction has drained them.
func (r *CartItemRepository) LockByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepository) FindByUserAndFood(ctx context.Context, tx *gorm.DB, userID, foodItemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.WithContext(ctx).
		Where("user_id = ? AND food_item_id = ?", userID, foodItemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// AddOrIncrement inserts the (user, food item) row, or adds item.Quantity to
// the row that already holds the pair, in one statement. item.ID is only
// meaningful when the insert won.
func (r *CartItemRepository) AddOrIncrement(ctx context.Context, tx *gorm.DB, item *models.CartItem) error {
	return tx.WithContext(ctx).
		Omit("FoodItem", "User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "food_item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
				"updated_at": time.Now(),
			}),
		}).
		Create(item).Error
}

// IsDeadlock reports whether MySQL rolled the transaction back to break a
// lock cycle. The statement is safe to run again.
func IsDeadlock(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1213
}

func (r *CartItemRepository) UpdateQuantity(ctx context.Context, tx *gorm.DB, id string, quantity int) error {
	return tx.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *CartItemRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{}).Error
}

func (r *CartItemRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *CartItemRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}
