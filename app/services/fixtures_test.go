package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Rakhulsr/go-foodie/app/db/testdb"
	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	published *recordingPublisher
	carts     *CartService
	orders    *OrderService
	catalog   *CatalogService
	reviews   *ReviewService
	payments  repositories.PaymentRepository
	category  *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)

	cartRepo := repositories.NewCartItemRepository(db)
	foodRepo := repositories.NewFoodItemRepository(db)
	published := &recordingPublisher{}

	f := &fixture{
		db:        db,
		published: published,
		carts:     NewCartService(db, cartRepo, foodRepo),
		orders: NewOrderService(db,
			repositories.NewOrderRepository(db),
			repositories.NewOrderItemRepository(db),
			cartRepo, foodRepo, published),
		catalog:  NewCatalogService(db, repositories.NewCategoryRepository(db), foodRepo),
		reviews:  NewReviewService(repositories.NewReviewRepository(db), foodRepo),
		payments: repositories.NewPaymentRepository(db),
	}

	f.category = &models.Category{Name: "Burgers", Slug: "burgers"}
	require.NoError(t, db.Create(f.category).Error)
	return f
}

func (f *fixture) user(t *testing.T, username, role string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x", Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) food(t *testing.T, name, price string) *models.FoodItem {
	t.Helper()
	item := &models.FoodItem{
		CategoryID: f.category.ID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
