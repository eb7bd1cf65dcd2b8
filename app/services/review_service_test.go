package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewOncePerCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	bob := f.user(t, "bob", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	review, err := f.reviews.CreateReview(ctx, alice, burger.ID, ReviewInput{Rating: 4, Comment: "juicy"})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.CustomerUsername)
	assert.Equal(t, "Burger", review.FoodItemName)

	_, err = f.reviews.CreateReview(ctx, alice, burger.ID, ReviewInput{Rating: 2})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "you have already reviewed this item", apperr.MessageOf(err))

	_, err = f.reviews.CreateReview(ctx, bob, burger.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	reviews, err := f.reviews.ListReviews(ctx, burger.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	names := []string{reviews[0].CustomerUsername, reviews[1].CustomerUsername}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
	assert.Equal(t, "Burger", reviews[0].FoodItemName)
}

func TestCreateReviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleCustomer)
	burger := f.food(t, "Burger", "5.00")

	for _, rating := range []int{0, 6} {
		_, err := f.reviews.CreateReview(ctx, alice, burger.ID, ReviewInput{Rating: rating})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), rating)
	}

	_, err := f.reviews.CreateReview(ctx, alice, "missing", ReviewInput{Rating: 3})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
