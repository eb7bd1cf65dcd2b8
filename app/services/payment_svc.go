package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	placeholderAddress = "N/A"
	placeholderCity    = "Dhaka"
	placeholderCountry = "Bangladesh"
	placeholderPhone   = "123456789"
)

type PaymentSession struct {
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	RedirectURL   string          `json:"url"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

type PaymentService struct {
	db          *gorm.DB
	orders      *OrderService
	paymentRepo repositories.PaymentRepository
	gateway     Gateway
	verifier    TransactionVerifier
	currency    string
}

// NewPaymentService wires the coordinator. verifier may be nil when the
// configured gateway has no server-to-server notifications.
func NewPaymentService(
	db *gorm.DB,
	orders *OrderService,
	paymentRepo repositories.PaymentRepository,
	gateway Gateway,
	verifier TransactionVerifier,
	currency string,
) *PaymentService {
	if currency == "" {
		currency = "BDT"
	}
	return &PaymentService{
		db:          db,
		orders:      orders,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		verifier:    verifier,
		currency:    currency,
	}
}

// NewTransactionID returns a fresh gateway transaction id, short enough for
// every supported gateway.
func NewTransactionID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TRX" + raw[:20]
}

// InitiatePayment checks the user's cart out and opens a hosted checkout for
// the new order. The order is committed before the gateway is called, so a
// gateway failure leaves it Pending.
func (s *PaymentService) InitiatePayment(ctx context.Context, user *models.User, baseURL string) (*PaymentSession, error) {
	if user == nil {
		return nil, apperr.Unauthorized("authentication required")
	}

	order, err := s.orders.CheckoutFromCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	tranID := NewTransactionID()
	req := SessionRequest{
		OrderID:       order.ID,
		TransactionID: tranID,
		Amount:        order.TotalPrice,
		Currency:      s.currency,
		Payer: Payer{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Phone:    user.Phone,
		},
		Items:           sessionItems(order),
		SuccessURL:      CallbackURL(baseURL, "success", tranID, order.ID),
		FailURL:         CallbackURL(baseURL, "fail", tranID, order.ID),
		CancelURL:       CallbackURL(baseURL, "cancel", tranID, order.ID),
		ShippingAddress: placeholderAddress,
		ShippingCity:    placeholderCity,
		ShippingCountry: placeholderCountry,
	}
	if req.Payer.Phone == "" {
		req.Payer.Phone = placeholderPhone
	}

	session, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		log.Printf("PaymentService.InitiatePayment: order %s stays pending: %v", order.ID, err)
		return nil, err
	}

	payment := &models.Payment{
		OrderID:       order.ID,
		TransactionID: tranID,
		Gateway:       s.gateway.Name(),
		Amount:        order.TotalPrice,
		Currency:      s.currency,
		Status:        models.PaymentStatusInitiated,
		RedirectURL:   session.RedirectURL,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment %s: %w", tranID, err)
	}

	log.Printf("PaymentService.InitiatePayment: %s session %s opened for order %s", s.gateway.Name(), tranID, order.ID)
	return &PaymentSession{
		OrderID:       order.ID,
		TransactionID: tranID,
		RedirectURL:   session.RedirectURL,
		Amount:        order.TotalPrice,
		Currency:      s.currency,
	}, nil
}

// OnSuccess handles the browser return after a payment. When the gateway can
// be queried the redirect is only a hint: the verified outcome is applied, and
// a transaction that is still pending leaves the order untouched.
func (s *PaymentService) OnSuccess(ctx context.Context, orderID, tranID string) (*models.Order, error) {
	if s.verifier == nil {
		return s.applyOutcome(ctx, orderID, tranID, OutcomeSuccess)
	}

	payment, err := s.transactionOf(ctx, orderID, tranID)
	if err != nil {
		return nil, err
	}
	outcome, err := s.verifier.VerifyTransaction(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomePending {
		log.Printf("PaymentService.OnSuccess: transaction %s for order %s is still pending", tranID, orderID)
		return s.currentOrder(ctx, payment.OrderID)
	}
	return s.applyOutcome(ctx, payment.OrderID, payment.TransactionID, outcome)
}

func (s *PaymentService) OnFail(ctx context.Context, orderID, tranID string) (*models.Order, error) {
	return s.applyOutcome(ctx, orderID, tranID, OutcomeFail)
}

func (s *PaymentService) OnCancel(ctx context.Context, orderID, tranID string) (*models.Order, error) {
	return s.applyOutcome(ctx, orderID, tranID, OutcomeCancel)
}

// HandleMidtransNotification re-reads the transaction from the gateway and
// applies whatever outcome it reports.
func (s *PaymentService) HandleMidtransNotification(ctx context.Context, n MidtransNotification) (*models.Order, error) {
	if s.verifier == nil {
		return nil, apperr.NotFound("payment notifications are not enabled")
	}
	if n.OrderID == "" {
		return nil, apperr.Validation("order_id is required")
	}

	payment, err := s.paymentRepo.FindByTransactionID(ctx, n.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", n.OrderID, err)
	}
	if payment == nil {
		return nil, apperr.NotFound("transaction %s not found", n.OrderID)
	}

	outcome, err := s.verifier.VerifyTransaction(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}
	if outcome != n.outcome() {
		log.Printf("PaymentService.HandleMidtransNotification: %s notified %q but gateway reports %q", n.OrderID, n.TransactionStatus, outcome)
	}

	if outcome == OutcomePending {
		return s.currentOrder(ctx, payment.OrderID)
	}
	return s.applyOutcome(ctx, payment.OrderID, payment.TransactionID, outcome)
}

// transactionOf returns the payment row for tranID, provided it was opened
// for orderID.
func (s *PaymentService) transactionOf(ctx context.Context, orderID, tranID string) (*models.Payment, error) {
	if tranID == "" {
		return nil, apperr.Validation("tran_id is required")
	}
	payment, err := s.paymentRepo.FindByTransactionID(ctx, tranID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", tranID, err)
	}
	if payment == nil || payment.OrderID != orderID {
		return nil, apperr.NotFound("transaction %s not found", tranID)
	}
	return payment, nil
}

func (s *PaymentService) currentOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	return order, nil
}

func (n MidtransNotification) outcome() PaymentOutcome {
	return MidtransOutcome(n.TransactionStatus, n.FraudStatus)
}

func (s *PaymentService) applyOutcome(ctx context.Context, orderID, tranID string, outcome PaymentOutcome) (*models.Order, error) {
	orderStatus, paymentStatus, eventType := outcomeStatuses(outcome)

	order, changed, err := s.orders.SetStatusFromGateway(ctx, orderID, orderStatus)
	if err != nil {
		log.Printf("PaymentService.applyOutcome: %s for order %q: %v", outcome, orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	log.Printf("PaymentService.applyOutcome: order %s is %s after %s callback", orderID, order.Status, outcome)

	if tranID != "" {
		if err := s.recordPaymentStatus(ctx, orderID, tranID, paymentStatus); err != nil {
			return nil, err
		}
	}

	if changed {
		s.orders.publish(ctx, eventType, order)
	}
	return order, nil
}

func (s *PaymentService) recordPaymentStatus(ctx context.Context, orderID, tranID, status string) error {
	payment, err := s.paymentRepo.FindByTransactionID(ctx, tranID)
	if err != nil {
		return fmt.Errorf("failed to get payment %s: %w", tranID, err)
	}
	if payment == nil || payment.OrderID != orderID {
		log.Printf("PaymentService.recordPaymentStatus: transaction %s does not belong to order %s", tranID, orderID)
		return nil
	}
	if payment.Status == status {
		return nil
	}
	if err := s.paymentRepo.UpdateStatus(ctx, s.db, tranID, status); err != nil {
		return fmt.Errorf("failed to update payment %s: %w", tranID, err)
	}
	return nil
}

func outcomeStatuses(outcome PaymentOutcome) (models.OrderStatus, string, string) {
	switch outcome {
	case OutcomeSuccess:
		return models.OrderStatusPaid, models.PaymentStatusSucceeded, events.OrderPaid
	case OutcomeFail:
		return models.OrderStatusCancelled, models.PaymentStatusFailed, events.OrderCancelled
	default:
		return models.OrderStatusCancelled, models.PaymentStatusCancelled, events.OrderCancelled
	}
}

// CallbackURL builds the browser return URL for one outcome of a transaction.
func CallbackURL(baseURL, outcome, tranID, orderID string) string {
	return fmt.Sprintf("%s/payment/%s/?tran_id=%s&order_id=%s",
		strings.TrimRight(baseURL, "/"), outcome, url.QueryEscape(tranID), url.QueryEscape(orderID))
}

func sessionItems(order *models.Order) []SessionItem {
	items := make([]SessionItem, 0, len(order.Items))
	for _, item := range order.Items {
		si := SessionItem{ID: item.FoodItemID, Quantity: item.Quantity}
		if item.FoodItem != nil {
			si.Name = item.FoodItem.Name
			si.Price = item.FoodItem.Price
			if item.FoodItem.Category != nil {
				si.Category = item.FoodItem.Category.Name
			}
		}
		items = append(items, si)
	}
	return items
}
