// Package events publishes order lifecycle notifications. Publishing happens
// after the database work has committed and never changes its outcome.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderCreated   = "order.created"
	OrderPaid      = "order.paid"
	OrderCancelled = "order.cancelled"
	OrderUpdated   = "order.updated"
	OrderDeleted   = "order.deleted"
)

type OrderEvent struct {
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Status        string          `json:"status"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }

type multi []Publisher

// Multi fans an event out to every publisher and joins their errors.
func Multi(publishers ...Publisher) Publisher {
	var ps multi
	for _, p := range publishers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return ps
}

func (m multi) Publish(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
