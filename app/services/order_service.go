package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DeliveryTimeLayout = "2006-01-02T15:04:05Z"
	deliveryTimeFormat = "YYYY-MM-DDTHH:MM:SSZ"
)

// fits the decimal(16,2) total column
var maxOrderTotal = decimal.New(1, 14)

// time.Parse tolerates fractional seconds the layout does not mention
var deliveryTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

type UpdateOrderInput struct {
	Status                *string `json:"status"`
	EstimatedDeliveryTime *string `json:"estimated_delivery_time"`
}

type OrderService struct {
	db            *gorm.DB
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	cartItemRepo  repositories.CartItemRepositoryImpl
	foodItemRepo  repositories.FoodItemRepositoryImpl
	publisher     events.Publisher
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	cartItemRepo repositories.CartItemRepositoryImpl,
	foodItemRepo repositories.FoodItemRepositoryImpl,
	publisher events.Publisher,
) *OrderService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartItemRepo:  cartItemRepo,
		foodItemRepo:  foodItemRepo,
		publisher:     publisher,
	}
}

func (s *OrderService) CreateOrderFromItems(ctx context.Context, customerID string, lines []LineRequest) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	var orderID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.buildOrder(ctx, tx, customerID, lines)
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		log.Printf("OrderService.CreateOrderFromItems: customer %s: %v", customerID, err)
		return nil, err
	}

	return s.loadAndPublish(ctx, orderID, events.OrderCreated)
}

// CheckoutFromCart turns the user's whole cart into an order and drains it in
// the same transaction.
func (s *OrderService) CheckoutFromCart(ctx context.Context, userID string) (*models.Order, error) {
	var orderID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartItems, err := s.cartItemRepo.LockByUserID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to read cart: %w", err)
		}
		if len(cartItems) == 0 {
			return apperr.Validation("cart empty")
		}

		order, err := s.buildOrder(ctx, tx, userID, LineRequests(cartItems))
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(cartItems))
		for _, item := range cartItems {
			ids = append(ids, item.ID)
		}
		deleted, err := s.cartItemRepo.DeleteByIDs(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if deleted != int64(len(ids)) {
			return apperr.Conflict("cart changed during checkout, please retry")
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		log.Printf("OrderService.CheckoutFromCart: user %s: %v", userID, err)
		return nil, err
	}

	log.Printf("OrderService.CheckoutFromCart: order %s created from cart of user %s", orderID, userID)
	return s.loadAndPublish(ctx, orderID, events.OrderCreated)
}

// buildOrder writes the order shell, its items and finally the total, all on tx.
func (s *OrderService) buildOrder(ctx context.Context, tx *gorm.DB, customerID string, lines []LineRequest) (*models.Order, error) {
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, apperr.Validation("line %d: quantity must be a positive integer", i+1)
		}
	}

	order := &models.Order{
		CustomerID: customerID,
		TotalPrice: decimal.Zero,
		Status:     models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		food, err := s.foodItemRepo.FindByID(ctx, tx, line.FoodItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get food item %s: %w", line.FoodItemID, err)
		}
		if food == nil {
			return nil, apperr.NotFound("food item %s not found", line.FoodItemID)
		}

		items = append(items, models.OrderItem{
			OrderID:    order.ID,
			FoodItemID: food.ID,
			Quantity:   line.Quantity,
		})
		total = total.Add(food.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if total.GreaterThanOrEqual(maxOrderTotal) {
		return nil, apperr.Validation("order total must be below %s", maxOrderTotal.StringFixed(2))
	}

	if err := s.orderItemRepo.BulkCreate(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err := s.orderRepo.UpdateTotal(ctx, tx, order.ID, total); err != nil {
		return nil, fmt.Errorf("failed to finalize order total: %w", err)
	}
	order.TotalPrice = total
	order.Items = items
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAllOrders is the admin view; status may be empty.
func (s *OrderService) ListAllOrders(ctx context.Context, status string) ([]models.Order, error) {
	var filter repositories.OrderFilter
	if status != "" {
		st, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, invalidStatus(status)
		}
		filter.Status = st
	}

	orders, err := s.orderRepo.GetAllOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list all orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns NotFound for orders the viewer may not see.
func (s *OrderService) GetOrder(ctx context.Context, viewer *models.User, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || viewer == nil || (order.CustomerID != viewer.ID && !viewer.IsAdmin()) {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, customerID, orderID string) error {
	var deleted *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil || order.CustomerID != customerID {
			return apperr.NotFound("order %s not found", orderID)
		}
		if order.Status != models.OrderStatusPending {
			return apperr.Conflict("only pending orders may be deleted")
		}
		deleted = order
		return s.orderRepo.Delete(ctx, tx, orderID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.OrderDeleted, deleted)
	return nil
}

func (s *OrderService) UpdateOrderAdmin(ctx context.Context, orderID string, input UpdateOrderInput) (*models.Order, error) {
	fields := map[string]interface{}{}

	var newStatus models.OrderStatus
	if input.Status != nil && *input.Status != "" {
		st, err := models.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, invalidStatus(*input.Status)
		}
		newStatus = st
		fields["status"] = st
	}

	if input.EstimatedDeliveryTime != nil && *input.EstimatedDeliveryTime != "" {
		eta, err := ParseDeliveryTime(*input.EstimatedDeliveryTime)
		if err != nil {
			return nil, err
		}
		fields["estimated_delivery_time"] = eta
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound("order %s not found", orderID)
		}
		if newStatus != "" && !order.Status.CanTransitionTo(newStatus) {
			return apperr.Conflict("cannot change order status from %s to %s", order.Status, newStatus)
		}
		if len(fields) == 0 {
			return nil
		}
		return s.orderRepo.UpdateFields(ctx, tx, orderID, fields)
	})
	if err != nil {
		log.Printf("OrderService.UpdateOrderAdmin: order %s: %v", orderID, err)
		return nil, err
	}

	return s.loadAndPublish(ctx, orderID, events.OrderUpdated)
}

// SetStatusFromGateway applies a payment outcome. The gateway is authoritative,
// so the transition table is not consulted and the last callback wins.
func (s *OrderService) SetStatusFromGateway(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, bool, error) {
	if orderID == "" {
		return nil, false, apperr.NotFound("order not found")
	}

	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound("order %s not found", orderID)
		}
		if order.Status == status {
			return nil
		}
		changed = true
		return s.orderRepo.UpdateStatus(ctx, tx, orderID, status)
	})
	if err != nil {
		return nil, false, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return order, changed, nil
}

func (s *OrderService) loadAndPublish(ctx context.Context, orderID, eventType string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	s.publish(ctx, eventType, order)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if err := s.publisher.Publish(ctx, NewOrderEvent(eventType, order)); err != nil {
		log.Printf("OrderService.publish: %s for order %s: %v", eventType, order.ID, err)
	}
}

func NewOrderEvent(eventType string, order *models.Order) events.OrderEvent {
	e := events.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
	if order.Customer != nil {
		e.CustomerName = order.Customer.Username
		e.CustomerEmail = order.Customer.Email
	}
	return e
}

func ParseDeliveryTime(value string) (time.Time, error) {
	invalid := apperr.Validation(`Invalid datetime format. Use "%s".`, deliveryTimeFormat)
	if !deliveryTimePattern.MatchString(value) {
		return time.Time{}, invalid
	}
	t, err := time.Parse(DeliveryTimeLayout, value)
	if err != nil {
		return time.Time{}, invalid
	}
	return t, nil
}

func invalidStatus(value string) error {
	names := make([]string, 0, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		names = append(names, string(st))
	}
	return apperr.Validation("invalid status %q, expected one of %s", value, strings.Join(names, ", "))
}
