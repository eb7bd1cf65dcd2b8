package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/Rakhulsr/go-foodie/app/db/testdb"
	"github.com/Rakhulsr/go-foodie/app/models"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrIncrementMergesOnUserAndFood(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewCartItemRepository(db)

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(user).Error)
	category := &models.Category{Name: "Burgers", Slug: "burgers"}
	require.NoError(t, db.Create(category).Error)
	food := &models.FoodItem{CategoryID: category.ID, Name: "Burger", Price: decimal.RequireFromString("5.00")}
	require.NoError(t, db.Create(food).Error)

	first := &models.CartItem{UserID: user.ID, FoodItemID: food.ID, Quantity: 2}
	require.NoError(t, repo.AddOrIncrement(ctx, db, first))
	require.NoError(t, repo.AddOrIncrement(ctx, db, &models.CartItem{UserID: user.ID, FoodItemID: food.ID, Quantity: 3}))

	merged, err := repo.FindByUserAndFood(ctx, db, user.ID, food.ID)
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)

	count, err := repo.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	missing, err := repo.FindByUserAndFood(ctx, db, user.ID, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIsDeadlock(t *testing.T) {
	deadlock := &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}

	assert.True(t, IsDeadlock(deadlock))
	assert.True(t, IsDeadlock(fmt.Errorf("failed to add cart item: %w", deadlock)))
	assert.False(t, IsDeadlock(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, IsDeadlock(fmt.Errorf("boom")))
	assert.False(t, IsDeadlock(nil))
}
