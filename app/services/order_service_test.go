package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateOrderFromItemsSnapshotsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")
	fries := f.food(t, "Fries", "3.00")

	order, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{
		{FoodItemID: burger.ID, Quantity: 2},
		{FoodItemID: fries.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "alice", order.CustomerUsername)
	assertDecimal(t, "13.00", order.TotalPrice)
	require.Len(t, order.Items, 2)
	assert.Equal(t, []string{events.OrderCreated}, f.published.types())

	// later price changes do not touch the stored total
	require.NoError(t, f.db.Model(burger).Update("price", decimal.RequireFromString("9.00")).Error)
	reloaded, err := f.orders.GetOrder(ctx, alice, order.ID)
	require.NoError(t, err)
	assertDecimal(t, "13.00", reloaded.TotalPrice)
}

func TestCreateOrderFromItemsRollsBackOnUnknownFood(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	_, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{
		{FoodItemID: burger.ID, Quantity: 1},
		{FoodItemID: "missing", Quantity: 1},
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.orders.CreateOrderFromItems(ctx, alice.ID, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 0}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutFromCartDrainsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")
	fries := f.food(t, "Fries", "3.00")

	_, err := f.carts.AddToCart(ctx, alice.ID, burger.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, alice.ID, fries.ID, 1)
	require.NoError(t, err)

	order, err := f.orders.CheckoutFromCart(ctx, alice.ID)
	require.NoError(t, err)
	assertDecimal(t, "13.00", order.TotalPrice)

	quantities := map[string]int{}
	for _, item := range order.Items {
		quantities[item.FoodItemID] = item.Quantity
	}
	assert.Equal(t, map[string]int{burger.ID: 2, fries.ID: 1}, quantities)

	count, err := f.carts.Count(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.orders.CheckoutFromCart(ctx, alice.ID)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "cart empty", apperr.MessageOf(err))
}

func TestGetOrderVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	bob := f.user(t, "bob", models.RoleCustomer)
	admin := f.user(t, "root", models.RoleAdmin)
	burger := f.food(t, "Burger", "5.00")

	order, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = f.orders.GetOrder(ctx, bob, order.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	got, err := f.orders.GetOrder(ctx, admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	mine, err := f.orders.ListOrders(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.orders.ListOrders(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestDeleteOrderOnlyWhilePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	bob := f.user(t, "bob", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	pending, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)
	paid, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)
	_, _, err = f.orders.SetStatusFromGateway(ctx, paid.ID, models.OrderStatusPaid)
	require.NoError(t, err)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.orders.DeleteOrder(ctx, bob.ID, pending.ID)))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(f.orders.DeleteOrder(ctx, alice.ID, paid.ID)))

	require.NoError(t, f.orders.DeleteOrder(ctx, alice.ID, pending.ID))
	_, err = f.orders.GetOrder(ctx, alice, pending.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var items int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Where("order_id = ?", pending.ID).Count(&items).Error)
	assert.Zero(t, items)
	assert.Contains(t, f.published.types(), events.OrderDeleted)
}

func TestUpdateOrderAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	order, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.orders.UpdateOrderAdmin(ctx, order.ID, UpdateOrderInput{Status: strPtr("Shipped")})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("bad delivery time", func(t *testing.T) {
		for _, value := range []string{"2025-01-02 10:00:00", "2025-01-02T10:00:00.5Z", "2025-13-02T10:00:00Z"} {
			_, err := f.orders.UpdateOrderAdmin(ctx, order.ID, UpdateOrderInput{EstimatedDeliveryTime: strPtr(value)})
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), value)
			assert.Equal(t, `Invalid datetime format. Use "YYYY-MM-DDTHH:MM:SSZ".`, apperr.MessageOf(err))
		}
	})

	t.Run("status and delivery time", func(t *testing.T) {
		updated, err := f.orders.UpdateOrderAdmin(ctx, order.ID, UpdateOrderInput{
			Status:                strPtr("Processing"),
			EstimatedDeliveryTime: strPtr("2025-01-02T18:30:00Z"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusProcessing, updated.Status)
		require.NotNil(t, updated.EstimatedDeliveryTime)
		assert.True(t, time.Date(2025, 1, 2, 18, 30, 0, 0, time.UTC).Equal(*updated.EstimatedDeliveryTime))
	})

	t.Run("illegal transition", func(t *testing.T) {
		_, err := f.orders.UpdateOrderAdmin(ctx, order.ID, UpdateOrderInput{Status: strPtr("Pending")})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("terminal", func(t *testing.T) {
		_, err := f.orders.UpdateOrderAdmin(ctx, order.ID, UpdateOrderInput{Status: strPtr("Delivered")})
		require.NoError(t, err)
		_, err = f.orders.UpdateOrderAdmin(ctx, order.ID, UpdateOrderInput{Status: strPtr("Cancelled")})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.orders.UpdateOrderAdmin(ctx, "missing", UpdateOrderInput{Status: strPtr("Processing")})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestListAllOrdersFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	a, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 2}})
	require.NoError(t, err)
	_, _, err = f.orders.SetStatusFromGateway(ctx, a.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	all, err := f.orders.ListAllOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cancelled, err := f.orders.ListAllOrders(ctx, "Cancelled")
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, a.ID, cancelled[0].ID)

	_, err = f.orders.ListAllOrders(ctx, "cancelled")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetStatusFromGatewayIgnoresTransitionTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	order, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)

	got, changed, err := f.orders.SetStatusFromGateway(ctx, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	got, changed, err = f.orders.SetStatusFromGateway(ctx, order.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderStatusPaid, got.Status)

	_, changed, err = f.orders.SetStatusFromGateway(ctx, order.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.False(t, changed)

	_, _, err = f.orders.SetStatusFromGateway(ctx, "missing", models.OrderStatusPaid)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestParseDeliveryTime(t *testing.T) {
	got, err := ParseDeliveryTime("2024-06-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), got)

	_, err = ParseDeliveryTime("2024-06-01T12:00:00+02:00")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCheckoutFromCartConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")
	_, err := f.carts.AddToCart(ctx, alice.ID, burger.ID, 2)
	require.NoError(t, err)

	const workers = 6
	var (
		wg     sync.WaitGroup
		start  = make(chan struct{})
		orders = make([]*models.Order, workers)
		errs   = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			orders[i], errs[i] = f.orders.CheckoutFromCart(ctx, alice.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	created := 0
	for i := 0; i < workers; i++ {
		if errs[i] == nil {
			created++
			assertDecimal(t, "10.00", orders[i].TotalPrice)
			continue
		}
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(errs[i]))
		assert.Equal(t, "cart empty", apperr.MessageOf(errs[i]))
	}
	assert.Equal(t, 1, created)

	var stored int64
	require.NoError(t, f.db.Model(&models.Order{}).Where("customer_id = ?", alice.ID).Count(&stored).Error)
	assert.Equal(t, int64(1), stored)

	count, err := f.carts.Count(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOrderTotalIsBounded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	caviar := f.food(t, "Caviar", "999999.99")

	_, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: caviar.ID, Quantity: 200000000}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var stored int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&stored).Error)
	assert.Zero(t, stored)

	order, err := f.orders.CreateOrderFromItems(ctx, alice.ID, []LineRequest{{FoodItemID: caviar.ID, Quantity: 1000}})
	require.NoError(t, err)
	assertDecimal(t, "999999990.00", order.TotalPrice)
}
