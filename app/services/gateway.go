package services

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	GatewaySSLCommerz = "sslcommerz"
	GatewayMidtrans   = "midtrans"
)

type Payer struct {
	ID       string
	Username string
	Email    string
	Phone    string
}

type SessionItem struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
}

// SessionRequest is everything a hosted checkout needs to charge one order.
type SessionRequest struct {
	OrderID       string
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Payer         Payer
	Items         []SessionItem

	SuccessURL string
	FailURL    string
	CancelURL  string

	ShippingAddress string
	ShippingCity    string
	ShippingCountry string
}

type Session struct {
	RedirectURL string
	Reference   string
}

// Gateway opens a hosted checkout session. Implementations return an
// apperr gateway error for transport failures and unusable responses.
type Gateway interface {
	Name() string
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}
