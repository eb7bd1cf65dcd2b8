package seeders

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-foodie/app/db/fakers"
	"github.com/Rakhulsr/go-foodie/app/db/testdb"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBSeedIsRepeatableForCategories(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	require.NoError(t, DBSeed(ctx, db, 3))
	require.NoError(t, DBSeed(ctx, db, 1))

	var categories, items, users int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.FoodItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)

	assert.Equal(t, int64(len(fakers.CategoryNames)), categories)
	assert.Equal(t, int64(4*len(fakers.CategoryNames)), items)
	assert.Equal(t, int64(2), users)

	var item models.FoodItem
	require.NoError(t, db.First(&item).Error)
	assert.True(t, item.Price.IsPositive())
}
